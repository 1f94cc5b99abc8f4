package usecase

import (
	"context"

	"github.com/xavierca1/lead-intake/internal/infra/queue"
)

// AgentGateway é o agente conversacional: texto entra, texto sai.
// A sessão é criada sob demanda pelo conversationID.
type AgentGateway interface {
	Send(ctx context.Context, conversationID, text string) (string, error)
	ResetSession(conversationID string)
}

// PendingStore guarda a última resposta completa ainda não confirmada.
type PendingStore interface {
	Get(leadID string) (string, bool)
	Set(leadID, reply string)
	Delete(leadID string)
}

type LeadEventPublisher interface {
	PublishLeadConfirmed(ctx context.Context, payload queue.LeadConfirmedPayload) error
}
