package service

import (
	"context"
	"testing"

	"listabot/internal/models"
	"listabot/internal/repository"
	"listabot/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContactService(t *testing.T, rows [][]string) (*ContactService, *store.MemoryStore) {
	t.Helper()
	ms := store.NewMemoryStore(rows)
	logger := zerolog.Nop()
	return NewContactService(repository.NewContactRepo(ms), &logger), ms
}

func TestContactServiceSummary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newContactService(t, [][]string{
		{"Ana", "", "111", "", "Pendiente", ""},
		{"Juan", "", "222", "", "Aceptado", ""},
		{"Lola", "", "333", "", "En contacto - @maria", ""},
		{"Pepe", "", "444", "", "En contacto - @pedro", ""},
	})

	counts, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.StatusPending])
	assert.Equal(t, 1, counts[models.StatusAccepted])
	assert.Equal(t, 2, counts["En contacto"], "claim tags collapse into one bucket")
}

func TestContactServiceSetStatus(t *testing.T) {
	ctx := context.Background()
	svc, ms := newContactService(t, [][]string{
		{"Ana", "", "111", "", "Pendiente", ""},
	})

	target := models.Contact{FirstName: "Ana", Phone: "111", Status: models.StatusPending}
	require.NoError(t, svc.SetStatus(ctx, target, models.StatusCallBack, "después de las 18"))

	rows := ms.Rows()
	assert.Equal(t, models.StatusCallBack, rows[0][models.ColStatus])
	assert.Equal(t, "después de las 18", rows[0][models.ColNote])
}
