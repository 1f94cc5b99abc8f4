package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/lead-intake/internal/entity"
)

const DefaultFollowUpInterval = 24 * time.Hour

// FollowUpWorker é o lembrete periódico de leads que não responderam.
// Por enquanto só conta quem parou em "started"; nenhuma mensagem é enviada.
type FollowUpWorker struct {
	leadRepo     entity.LeadRepositoryInterface
	tickInterval time.Duration
}

func NewFollowUpWorker(leadRepo entity.LeadRepositoryInterface, interval time.Duration) *FollowUpWorker {
	if interval <= 0 {
		interval = DefaultFollowUpInterval
	}
	return &FollowUpWorker{
		leadRepo:     leadRepo,
		tickInterval: interval,
	}
}

// Start bloqueia até o ctx ser cancelado. O primeiro check acontece só
// depois do primeiro intervalo.
func (w *FollowUpWorker) Start(ctx context.Context) {
	log.Printf("🕒 Follow-up Worker iniciado (a cada %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Follow-up Worker encerrado")
			return
		case <-ticker.C:
			safeTick("follow-up", func() { w.checkUnresponsive(ctx) })
		}
	}
}

func (w *FollowUpWorker) checkUnresponsive(ctx context.Context) int {
	log.Println("🔎 Checking for unresponsive leads...")

	rows, err := w.leadRepo.FindAll(ctx)
	if err != nil {
		log.Printf("❌ Erro ao buscar leads para follow-up: %v", err)
		return 0
	}

	pending := 0
	for _, lead := range entity.LatestByLeadID(rows) {
		if lead.Status == entity.LeadStatusStarted {
			pending++
		}
	}

	if pending > 0 {
		log.Printf("📋 %d lead(s) ainda sem confirmação", pending)
	}
	return pending
}

// safeTick impede que um panic num tick derrube o processo.
func safeTick(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ [%s] panic recuperado: %v", name, r)
		}
	}()
	fn()
}
