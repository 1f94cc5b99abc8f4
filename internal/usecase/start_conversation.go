package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type StartConversationUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	Agent    AgentGateway
	Pending  PendingStore
}

func NewStartConversationUseCase(
	leadRepo entity.LeadRepositoryInterface,
	agent AgentGateway,
	pending PendingStore,
) *StartConversationUseCase {
	return &StartConversationUseCase{
		LeadRepo: leadRepo,
		Agent:    agent,
		Pending:  pending,
	}
}

func GreetingPrompt(name string) string {
	return fmt.Sprintf(
		"Hello %s, thank you for filling out the form. I'd like to gather some information from you including your name, age, country, and product interest. Is that okay?",
		name,
	)
}

func (uc *StartConversationUseCase) Execute(ctx context.Context, input StartConversationInput) (*StartConversationOutput, error) {
	if errs := ValidateStartConversationInput(input); len(errs) > 0 {
		code := CodeMissingLeadID
		if errs[0].Field == "name" {
			code = CodeMissingName
		}
		return nil, &DomainError{Code: code, Message: errs[0].Error()}
	}

	leadID := strings.TrimSpace(input.LeadID)
	log.Printf("🔄 Iniciando conversa para lead %s", leadID)

	// 1. Sessão nova no agente e nenhuma pendência herdada
	uc.Agent.ResetSession(leadID)
	uc.Pending.Delete(leadID)

	// 2. Saudação
	greeting, err := uc.Agent.Send(ctx, leadID, GreetingPrompt(input.Name))
	if err != nil {
		return nil, &TechnicalError{Code: CodeAgentGateway, Message: "falha ao enviar saudação", Err: err}
	}

	// 3. Linha "started", independente de o lead concluir o fluxo
	if err := uc.LeadRepo.Append(ctx, entity.NewStartedLead(leadID, input.Name)); err != nil {
		return nil, &TechnicalError{Code: CodeLeadStore, Message: "erro ao registrar lead", Err: err}
	}

	return &StartConversationOutput{LeadID: leadID, Greeting: greeting}, nil
}
