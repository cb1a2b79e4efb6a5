package store

import (
	"context"
	"testing"

	"listabot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	seed := [][]string{{"Ana", "", "111", "", "Pendiente", ""}}
	s := NewMemoryStore(seed)

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.CSVHeaders, got[0])

	// mutating the returned slice must not touch the store
	got[1][models.ColStatus] = "Aceptado"

	again, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pendiente", again[1][models.ColStatus])
}

func TestMemoryStoreUpdateCell(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore([][]string{{"Ana", "", "111", "", "Pendiente", ""}})

	require.NoError(t, s.UpdateCell(ctx, 2, models.ColNote, "llamar a la tarde"))

	rows := s.Rows()
	assert.Equal(t, "llamar a la tarde", rows[0][models.ColNote])

	assert.Error(t, s.UpdateCell(ctx, 5, 0, "x"))
}
