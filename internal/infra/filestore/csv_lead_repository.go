package filestore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/xavierca1/lead-intake/internal/entity"
)

// CSVLeadRepository é o store append-only em arquivo. Todas as escritas
// passam pelo mesmo mutex, então linhas nunca se intercalam.
type CSVLeadRepository struct {
	mu   sync.Mutex
	Path string
}

// NewCSVLeadRepository cria o arquivo com cabeçalho se ele não existir.
func NewCSVLeadRepository(path string) (*CSVLeadRepository, error) {
	r := &CSVLeadRepository{Path: path}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := r.writeFile(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("erro ao abrir %s: %w", path, err)
	}

	return r, nil
}

func (r *CSVLeadRepository) Append(_ context.Context, lead *entity.Lead) error {
	row, err := encode(lead.Record())
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("erro ao abrir arquivo de leads: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		header, _ := encode(entity.LeadColumns)
		row = append(header, row...)
	}

	// Uma única escrita por linha codificada.
	if _, err := f.Write(row); err != nil {
		return fmt.Errorf("erro ao gravar lead: %w", err)
	}
	return f.Sync()
}

func (r *CSVLeadRepository) FindAll(_ context.Context) ([]*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.readAll()
}

// Compact segura o mutex da leitura até o rename, então nenhum Append cai
// entre o snapshot e a regravação. Sem nada a remover o arquivo fica intacto.
func (r *CSVLeadRepository) Compact(_ context.Context) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.readAll()
	if err != nil {
		return 0, 0, err
	}

	kept := make([]*entity.Lead, 0, len(rows))
	for _, row := range rows {
		if row.IsComplete() {
			kept = append(kept, row)
		}
	}

	removed := len(rows) - len(kept)
	if removed == 0 {
		return len(kept), 0, nil
	}
	if err := r.writeFile(kept); err != nil {
		return 0, 0, err
	}
	return len(kept), removed, nil
}

// readAll exige r.mu.
func (r *CSVLeadRepository) readAll() ([]*entity.Lead, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao abrir arquivo de leads: %w", err)
	}
	defer f.Close()

	return decode(f)
}

// writeFile grava num temporário e troca via rename, para que uma falha no
// meio nunca deixe o arquivo pela metade.
func (r *CSVLeadRepository) writeFile(leads []*entity.Lead) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(entity.LeadColumns); err != nil {
		return err
	}
	for _, l := range leads {
		if err := w.Write(l.Record()); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	dir := filepath.Dir(r.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("erro ao criar temporário: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op depois do rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, r.Path); err != nil {
		return fmt.Errorf("erro ao substituir %s: %w", r.Path, err)
	}
	return nil
}

func encode(record []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(record); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(rd io.Reader) ([]*entity.Lead, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = len(entity.LeadColumns)

	var leads []*entity.Lead
	header := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("arquivo de leads inválido: %w", err)
		}
		if header {
			header = false
			continue
		}
		leads = append(leads, &entity.Lead{
			LeadID:   rec[0],
			Name:     rec[1],
			Age:      rec[2],
			Country:  rec[3],
			Interest: rec[4],
			Status:   entity.LeadStatus(rec[5]),
		})
	}
	return leads, nil
}

func (r *CSVLeadRepository) Ping(_ context.Context) error {
	_, err := os.Stat(r.Path)
	return err
}
