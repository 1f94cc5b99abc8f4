package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/queue"
)

const ConfirmedReply = "Thank you for confirming your details! Your information has been saved successfully. How else can I assist you today?"

type HandleTurnUseCase struct {
	LeadRepo  entity.LeadRepositoryInterface
	Agent     AgentGateway
	Pending   PendingStore
	Publisher LeadEventPublisher
}

// publisher pode ser nil quando o RabbitMQ não está configurado.
func NewHandleTurnUseCase(
	leadRepo entity.LeadRepositoryInterface,
	agent AgentGateway,
	pending PendingStore,
	publisher LeadEventPublisher,
) *HandleTurnUseCase {
	return &HandleTurnUseCase{
		LeadRepo:  leadRepo,
		Agent:     agent,
		Pending:   pending,
		Publisher: publisher,
	}
}

func (uc *HandleTurnUseCase) Execute(ctx context.Context, input HandleTurnInput) (*HandleTurnOutput, error) {
	// Mesma chave de sessão e pendência em todas as rotas.
	input.LeadID = strings.TrimSpace(input.LeadID)
	if derr := ValidateHandleTurnInput(input); derr != nil {
		return nil, derr
	}

	// 1. Confirmação contra a resposta pendente
	if IsConfirmation(input.Message) {
		out, ok, err := uc.confirm(ctx, input.LeadID)
		if err != nil {
			return nil, err
		}
		if ok {
			return out, nil
		}
		log.Printf("⚠️ [TURN] '%s' sem pendência válida para %s, repassando ao agente", ConfirmKeyword, input.LeadID)
	}

	// 2. Conversa normal
	reply, err := uc.Agent.Send(ctx, input.LeadID, input.Message)
	if err != nil {
		return nil, &TechnicalError{Code: CodeAgentGateway, Message: "falha ao falar com o agente", Err: err}
	}

	details := ExtractLeadDetails(reply)
	if !details.Complete() {
		return &HandleTurnOutput{Response: reply}, nil
	}

	uc.Pending.Set(input.LeadID, reply)
	log.Printf("📝 [TURN] Dados completos para %s, aguardando confirmação", input.LeadID)

	return &HandleTurnOutput{
		Response:             FormatConfirmation(details),
		AwaitingConfirmation: true,
	}, nil
}

// confirm devolve ok=false quando não há o que confirmar; nesse caso a
// mensagem segue para o agente como qualquer outra.
func (uc *HandleTurnUseCase) confirm(ctx context.Context, leadID string) (*HandleTurnOutput, bool, error) {
	previous, found := uc.Pending.Get(leadID)
	if !found {
		return nil, false, nil
	}

	details := ExtractLeadDetails(previous)
	if !details.Complete() {
		return nil, false, nil
	}

	lead := entity.NewConfirmedLead(leadID, details)
	if err := uc.LeadRepo.Append(ctx, lead); err != nil {
		return nil, false, &TechnicalError{Code: CodeLeadStore, Message: "erro ao salvar lead confirmado", Err: err}
	}

	// Uma pendência confirmada não pode ser confirmada de novo.
	uc.Pending.Delete(leadID)
	log.Printf("✅ [TURN] Lead %s confirmado (%s, %s)", leadID, lead.Name, lead.Country)

	uc.publish(ctx, lead)

	return &HandleTurnOutput{Response: ConfirmedReply, Confirmed: true}, true, nil
}

func (uc *HandleTurnUseCase) publish(ctx context.Context, lead *entity.Lead) {
	if uc.Publisher == nil {
		return
	}

	payload := queue.LeadConfirmedPayload{
		EventID:  uuid.New().String(),
		LeadID:   lead.LeadID,
		Name:     lead.Name,
		Age:      lead.Age,
		Country:  lead.Country,
		Interest: lead.Interest,
		Origin:   "CHAT",
	}

	if err := uc.Publisher.PublishLeadConfirmed(ctx, payload); err != nil {
		log.Printf("⚠️ CRITICAL: Lead %s salvo, mas falha na fila: %v", lead.LeadID, err)
	}
}
