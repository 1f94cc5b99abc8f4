package usecase

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateStartConversationInput(input StartConversationInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.LeadID) == "" {
		errors = append(errors, ValidationError{"lead_id", "is required"})
	}
	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}

	return errors
}

// O corpo da mensagem não é aparado aqui: "  confirm " continua válido.
func ValidateHandleTurnInput(input HandleTurnInput) *DomainError {
	if input.LeadID == "" {
		return &DomainError{Code: CodeMissingLeadID, Message: "Missing lead_id parameter"}
	}
	if input.Message == "" {
		return &DomainError{Code: CodeMissingMessage, Message: "Missing message in request body"}
	}
	return nil
}
