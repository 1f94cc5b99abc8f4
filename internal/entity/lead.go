package entity

import (
	"context"
	"strings"
)

type LeadStatus string

const (
	LeadStatusStarted   LeadStatus = "started"
	LeadStatusConfirmed LeadStatus = "confirmed"
)

// LeadColumns é o cabeçalho do arquivo de leads, na ordem de escrita.
var LeadColumns = []string{"lead_id", "name", "age", "country", "interest", "status"}

type Lead struct {
	LeadID   string     `json:"lead_id"`
	Name     string     `json:"name"`
	Age      string     `json:"age"`
	Country  string     `json:"country"`
	Interest string     `json:"interest"`
	Status   LeadStatus `json:"status"` // started, confirmed
}

// LeadDetails são os campos extraídos da resposta do agente.
type LeadDetails struct {
	Name     string `json:"name"`
	Age      string `json:"age"`
	Country  string `json:"country"`
	Interest string `json:"interest"`
}

// Complete só é verdadeiro com os quatro campos preenchidos.
func (d LeadDetails) Complete() bool {
	return d.Name != "" && d.Age != "" && d.Country != "" && d.Interest != ""
}

func NewStartedLead(leadID, name string) *Lead {
	return &Lead{
		LeadID: leadID,
		Name:   name,
		Status: LeadStatusStarted,
	}
}

func NewConfirmedLead(leadID string, d LeadDetails) *Lead {
	return &Lead{
		LeadID:   leadID,
		Name:     d.Name,
		Age:      d.Age,
		Country:  d.Country,
		Interest: d.Interest,
		Status:   LeadStatusConfirmed,
	}
}

// IsComplete é o critério da compactação: age, country e interest não podem
// estar vazios (nem só com espaços).
func (l *Lead) IsComplete() bool {
	return strings.TrimSpace(l.Age) != "" &&
		strings.TrimSpace(l.Country) != "" &&
		strings.TrimSpace(l.Interest) != ""
}

// Record devolve a linha na ordem de LeadColumns.
func (l *Lead) Record() []string {
	return []string{l.LeadID, l.Name, l.Age, l.Country, l.Interest, string(l.Status)}
}

// LatestByLeadID reduz o histórico append-only à última linha de cada lead.
func LatestByLeadID(rows []*Lead) map[string]*Lead {
	latest := make(map[string]*Lead, len(rows))
	for _, row := range rows {
		latest[row.LeadID] = row
	}
	return latest
}

type LeadRepositoryInterface interface {
	Append(ctx context.Context, lead *Lead) error
	FindAll(ctx context.Context) ([]*Lead, error)
	// Compact remove as linhas que não passam em IsComplete. Leitura, filtro
	// e regravação são uma operação só: um Append concorrente nunca se perde.
	Compact(ctx context.Context) (kept, removed int, err error)
}
