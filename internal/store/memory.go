package store

import (
	"context"
	"fmt"
	"sync"

	"listabot/internal/models"
)

// MemoryStore is an in-process RowStore used in tests and as scratch
// backing for auxiliary tabs when no spreadsheet is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	header []string
	rows   [][]string
}

// NewMemoryStore builds a roster-shaped store seeded with data rows.
func NewMemoryStore(rows [][]string) *MemoryStore {
	return NewMemoryStoreWithHeader(models.CSVHeaders, rows)
}

func NewMemoryStoreWithHeader(header []string, rows [][]string) *MemoryStore {
	s := &MemoryStore{header: append([]string(nil), header...)}
	for _, row := range rows {
		s.rows = append(s.rows, models.PadRow(append([]string(nil), row...), len(header)))
	}
	return s
}

// ReadAll returns the header followed by the data rows.
func (s *MemoryStore) ReadAll(ctx context.Context) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([][]string, 0, len(s.rows)+1)
	out = append(out, append([]string(nil), s.header...))
	for _, row := range s.rows {
		out = append(out, append([]string(nil), row...))
	}
	return out, nil
}

// Rows returns a copy of the data rows, for test assertions.
func (s *MemoryStore) Rows() [][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([][]string, len(s.rows))
	for i, row := range s.rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

func (s *MemoryStore) OverwriteAll(ctx context.Context, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = nil
	for _, row := range rows {
		s.rows = append(s.rows, models.PadRow(append([]string(nil), row...), len(s.header)))
	}
	return nil
}

func (s *MemoryStore) UpdateCell(ctx context.Context, row, col int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := row - 2
	if idx < 0 || idx >= len(s.rows) || col < 0 || col >= len(s.header) {
		return fmt.Errorf("cell %d,%d out of range", row, col)
	}
	s.rows[idx][col] = value
	return nil
}

func (s *MemoryStore) AppendRow(ctx context.Context, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = append(s.rows, models.PadRow(append([]string(nil), row...), len(s.header)))
	return nil
}
