package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/lead-intake/internal/entity"
)

const schema = `
	CREATE TABLE IF NOT EXISTS leads (
		seq        BIGSERIAL PRIMARY KEY,
		lead_id    TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		age        TEXT NOT NULL DEFAULT '',
		country    TEXT NOT NULL DEFAULT '',
		interest   TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// LeadRepository guarda o mesmo histórico append-only do CSV numa tabela.
// A ordem é dada por seq.
type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("erro ao criar tabela leads: %w", err)
	}
	return nil
}

func (r *LeadRepository) Append(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (lead_id, name, age, country, interest, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.LeadID,
		lead.Name,
		lead.Age,
		lead.Country,
		lead.Interest,
		string(lead.Status),
	)
	return err
}

func (r *LeadRepository) FindAll(ctx context.Context) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT lead_id, name, age, country, interest, status
		FROM leads
		ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		var l entity.Lead
		var status string
		if err := rows.Scan(&l.LeadID, &l.Name, &l.Age, &l.Country, &l.Interest, &status); err != nil {
			return nil, err
		}
		l.Status = entity.LeadStatus(status)
		leads = append(leads, &l)
	}
	return leads, rows.Err()
}

// incompleteCondition é o mesmo critério de entity.Lead.IsComplete, negado.
const incompleteCondition = `btrim(age) = '' OR btrim(country) = '' OR btrim(interest) = ''`

// Compact apaga as linhas incompletas com um único DELETE, então um INSERT
// concorrente nunca é removido por um snapshot velho. A contagem das que
// ficaram roda na mesma transação.
func (r *LeadRepository) Compact(ctx context.Context) (int, int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM leads WHERE `+incompleteCondition)
	if err != nil {
		return 0, 0, fmt.Errorf("erro ao compactar leads: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}

	var kept int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM leads`).Scan(&kept); err != nil {
		return 0, 0, fmt.Errorf("erro ao contar leads: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return kept, int(removed), nil
}

func (r *LeadRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
