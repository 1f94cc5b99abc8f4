package usecase

import "errors"

const (
	CodeMissingLeadID  = "MISSING_LEAD_ID"
	CodeMissingName    = "MISSING_NAME"
	CodeMissingMessage = "MISSING_MESSAGE"
	CodeLeadStore      = "LEAD_STORE"
	CodeAgentGateway   = "AGENT_GATEWAY"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
