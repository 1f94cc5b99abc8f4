package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

type Compactor interface {
	Execute(ctx context.Context) (*usecase.CompactLeadsOutput, error)
}

// CompactionWorker roda a limpeza de linhas incompletas num intervalo fixo.
type CompactionWorker struct {
	compactor    Compactor
	tickInterval time.Duration
}

func NewCompactionWorker(compactor Compactor, interval time.Duration) *CompactionWorker {
	return &CompactionWorker{
		compactor:    compactor,
		tickInterval: interval,
	}
}

func (w *CompactionWorker) Start(ctx context.Context) {
	log.Printf("🧹 Compaction Worker iniciado (a cada %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Compaction Worker encerrado")
			return
		case <-ticker.C:
			safeTick("compaction", func() { w.compact(ctx) })
		}
	}
}

func (w *CompactionWorker) compact(ctx context.Context) {
	out, err := w.compactor.Execute(ctx)
	if err != nil {
		log.Printf("❌ Erro na compactação: %v", err)
		return
	}
	middleware.RecordLeadsCompacted(out.Removed)
}
