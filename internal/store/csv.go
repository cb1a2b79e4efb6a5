package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"listabot/internal/domain"
	"listabot/internal/models"
)

// CSVStore keeps the roster in a local CSV file. Every write rewrites a
// temp file and renames it over the original so a crash never leaves a
// half-written roster. A single mutex serializes access within the
// process; that matches the one-bot-per-file deployment.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

func NewCSVStore(path string) (*CSVStore, error) {
	s := &CSVStore{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.writeAll(nil); err != nil {
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVStore) ReadAll(ctx context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

func (s *CSVStore) OverwriteAll(ctx context.Context, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAll(rows)
}

func (s *CSVStore) UpdateCell(ctx context.Context, row, col int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readData()
	if err != nil {
		return err
	}
	// row is 1-based with the header at row 1, so data row i is row i+2.
	idx := row - 2
	if idx < 0 || idx >= len(rows) || col < 0 || col >= models.ColumnCount {
		return fmt.Errorf("cell %d,%d out of range", row, col)
	}
	rows[idx][col] = value
	return s.writeAll(rows)
}

func (s *CSVStore) AppendRow(ctx context.Context, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readData()
	if err != nil {
		return err
	}
	return s.writeAll(append(rows, models.PadRow(row, models.ColumnCount)))
}

// readData is readAll without the header record.
func (s *CSVStore) readData() ([][]string, error) {
	rows, err := s.readAll()
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[1:], nil
}

func (s *CSVStore) readAll() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Excel exports prepend a UTF-8 BOM to the first cell.
	records[0][0] = strings.TrimPrefix(records[0][0], "\uFEFF")

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, models.PadRow(rec, models.ColumnCount))
	}
	return rows, nil
}

func (s *CSVStore) writeAll(rows [][]string) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".roster-*.csv")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(models.CSVHeaders); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	for _, row := range rows {
		if err := w.Write(models.PadRow(row, models.ColumnCount)); err != nil {
			tmp.Close()
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}
