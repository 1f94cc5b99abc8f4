package main

import (
	"context"
	"fmt"
	"log"

	"github.com/xavierca1/lead-intake/internal/config"
	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/database"
	"github.com/xavierca1/lead-intake/internal/infra/filestore"
)

type leadStore interface {
	entity.LeadRepositoryInterface
	Ping(ctx context.Context) error
}

func openLeadStore(ctx context.Context, cfg config.Config) (leadStore, func(), error) {
	switch cfg.LeadsBackend {
	case config.BackendPostgres:
		db, err := database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("falha ao conectar no Postgres: %w", err)
		}
		repo := database.NewLeadRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Println("🗄️ Leads em Postgres")
		return repo, func() { db.Close() }, nil

	default:
		repo, err := filestore.NewCSVLeadRepository(cfg.LeadsCSVPath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("🗄️ Leads em %s", cfg.LeadsCSVPath)
		return repo, func() {}, nil
	}
}
