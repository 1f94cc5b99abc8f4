package main

import (
	"context"
	"log"

	"github.com/xavierca1/lead-intake/internal/config"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

type CompactCmd struct{}

func (c *CompactCmd) Execute(_ []string) error {
	cfg, err := config.LoadMaintenance()
	if err != nil {
		return err
	}

	ctx := context.Background()
	repo, closeStore, err := openLeadStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	out, err := usecase.NewCompactLeadsUseCase(repo).Execute(ctx)
	if err != nil {
		return err
	}

	log.Printf("✅ Compactação concluída: %d mantida(s), %d removida(s)", out.Kept, out.Removed)
	return nil
}
