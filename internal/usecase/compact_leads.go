package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/lead-intake/internal/entity"
)

// CompactLeadsUseCase remove do store as linhas sem age, country ou interest.
// Pode rodar com o servidor no ar: a atomicidade frente a Append é do store.
type CompactLeadsUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
}

func NewCompactLeadsUseCase(leadRepo entity.LeadRepositoryInterface) *CompactLeadsUseCase {
	return &CompactLeadsUseCase{LeadRepo: leadRepo}
}

func (uc *CompactLeadsUseCase) Execute(ctx context.Context) (*CompactLeadsOutput, error) {
	kept, removed, err := uc.LeadRepo.Compact(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: CodeLeadStore, Message: "erro ao compactar leads", Err: err}
	}

	out := &CompactLeadsOutput{Kept: kept, Removed: removed}
	if removed > 0 {
		log.Printf("🧹 Compactação: %d linha(s) removida(s), %d mantida(s)", out.Removed, out.Kept)
	}
	return out, nil
}
