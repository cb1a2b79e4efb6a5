package repository

import (
	"context"
	"testing"

	"listabot/internal/domain"
	"listabot/internal/models"
	"listabot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRepo(t *testing.T, rows [][]string) (*ContactRepo, *store.MemoryStore) {
	t.Helper()
	ms := store.NewMemoryStore(rows)
	return NewContactRepo(ms), ms
}

func TestContactRepoReadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes statuses", func(t *testing.T) {
		repo, _ := seedRepo(t, [][]string{
			{"Ana", "", "111", "", "", ""},
			{"Juan", "", "222", "", "ACEPTADO", ""},
			{"Lola", "", "333", "", "rechazada", ""},
			{"Pepe", "", "444", "", "En contacto - @maria", ""},
		})

		contacts, err := repo.ReadAll(ctx)
		require.NoError(t, err)
		require.Len(t, contacts, 4)
		assert.Equal(t, models.StatusPending, contacts[0].Status)
		assert.Equal(t, models.StatusAccepted, contacts[1].Status)
		assert.Equal(t, models.StatusRejected, contacts[2].Status)
		assert.Equal(t, "En contacto - @maria", contacts[3].Status)
	})

	t.Run("empty store", func(t *testing.T) {
		repo, _ := seedRepo(t, nil)
		contacts, err := repo.ReadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, contacts)
	})
}

func TestMapHeader(t *testing.T) {
	t.Run("synonyms and accents", func(t *testing.T) {
		m := mapHeader([]string{"Nombre", "Apellido", "Tel", "Documento", "Etiquetas", "Notas"})
		assert.Equal(t, models.ColPhone, m[models.ColPhone])
		assert.Equal(t, models.ColNationalID, m[models.ColNationalID])
		assert.Equal(t, models.ColStatus, m[models.ColStatus])
		assert.Equal(t, models.ColNote, m[models.ColNote])
	})

	t.Run("reordered columns", func(t *testing.T) {
		m := mapHeader([]string{"Estado", "Nombre", "Apellido", "Teléfono", "DNI", "Observación"})
		assert.Equal(t, 0, m[models.ColStatus])
		assert.Equal(t, 1, m[models.ColFirstName])
		assert.Equal(t, 3, m[models.ColPhone])
	})

	t.Run("unrecognized header falls back to position", func(t *testing.T) {
		m := mapHeader([]string{"a", "b", "c", "d", "e", "f"})
		for i := 0; i < models.ColumnCount; i++ {
			assert.Equal(t, i, m[i])
		}
	})
}

func TestContactRepoUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("insert new contact", func(t *testing.T) {
		repo, ms := seedRepo(t, nil)

		res, err := repo.Upsert(ctx, models.Contact{FirstName: "Ana", Phone: "111"})
		require.NoError(t, err)
		assert.Equal(t, domain.UpsertInserted, res)

		rows := ms.Rows()
		require.Len(t, rows, 1)
		assert.Equal(t, models.StatusPending, rows[0][models.ColStatus], "new contacts start pending")
	})

	t.Run("update by phone keeps progress", func(t *testing.T) {
		repo, ms := seedRepo(t, [][]string{
			{"Ana", "Vieja", "111", "1", "Aceptado", "nota vieja"},
		})

		res, err := repo.Upsert(ctx, models.Contact{FirstName: "Ana", LastName: "Nueva", Phone: "111"})
		require.NoError(t, err)
		assert.Equal(t, domain.UpsertUpdated, res)

		rows := ms.Rows()
		require.Len(t, rows, 1)
		assert.Equal(t, "Nueva", rows[0][models.ColLastName])
		assert.Equal(t, "Aceptado", rows[0][models.ColStatus])
		assert.Equal(t, "nota vieja", rows[0][models.ColNote])
	})

	t.Run("explicit pending overwrites the stored status", func(t *testing.T) {
		repo, ms := seedRepo(t, [][]string{
			{"Ana", "", "111", "", "Aceptado", ""},
		})

		res, err := repo.Upsert(ctx, models.Contact{FirstName: "Ana", Phone: "111", Status: models.StatusPending})
		require.NoError(t, err)
		assert.Equal(t, domain.UpsertUpdated, res)
		assert.Equal(t, "Pendiente", ms.Rows()[0][models.ColStatus])
	})

	t.Run("match by national id when phone differs", func(t *testing.T) {
		repo, ms := seedRepo(t, [][]string{
			{"Ana", "", "111", "42", "Pendiente", ""},
		})

		res, err := repo.Upsert(ctx, models.Contact{FirstName: "Ana", Phone: "999", NationalID: "42"})
		require.NoError(t, err)
		assert.Equal(t, domain.UpsertUpdated, res)
		assert.Len(t, ms.Rows(), 1)
	})
}

func TestContactRepoUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("exact match", func(t *testing.T) {
		repo, ms := seedRepo(t, [][]string{
			{"Ana", "", "111", "", "Pendiente", ""},
			{"Juan", "", "222", "", "Pendiente", ""},
		})
		target := models.Contact{FirstName: "Juan", Phone: "222", Status: models.StatusPending}

		require.NoError(t, repo.UpdateStatus(ctx, target, models.StatusAccepted, ""))
		assert.Equal(t, "Aceptado", ms.Rows()[1][models.ColStatus])
	})

	t.Run("stale snapshot resolves by key", func(t *testing.T) {
		// caller holds a copy whose status changed under it
		repo, ms := seedRepo(t, [][]string{
			{"Ana", "", "111", "", "Aceptado", ""},
		})
		stale := models.Contact{FirstName: "Ana", Phone: "111", Status: models.StatusPending}

		require.NoError(t, repo.UpdateStatus(ctx, stale, models.StatusRejected, ""))
		assert.Equal(t, "Rechazado", ms.Rows()[0][models.ColStatus])
	})

	t.Run("call back later stores the note", func(t *testing.T) {
		repo, ms := seedRepo(t, [][]string{
			{"Ana", "", "111", "", "Pendiente", ""},
		})
		target := models.Contact{FirstName: "Ana", Phone: "111", Status: models.StatusPending}

		require.NoError(t, repo.UpdateStatus(ctx, target, models.StatusCallBack, "llamar martes"))
		rows := ms.Rows()
		assert.Equal(t, "Contactar Luego", rows[0][models.ColStatus])
		assert.Equal(t, "llamar martes", rows[0][models.ColNote])
	})

	t.Run("returning to pending clears the note", func(t *testing.T) {
		repo, ms := seedRepo(t, [][]string{
			{"Ana", "", "111", "", "Contactar Luego", "llamar martes"},
		})
		target := models.Contact{FirstName: "Ana", Phone: "111", Status: models.StatusCallBack, Note: "llamar martes"}

		require.NoError(t, repo.UpdateStatus(ctx, target, models.StatusPending, ""))
		rows := ms.Rows()
		assert.Equal(t, "Pendiente", rows[0][models.ColStatus])
		assert.Empty(t, rows[0][models.ColNote])
	})

	t.Run("other statuses leave the note alone", func(t *testing.T) {
		repo, ms := seedRepo(t, [][]string{
			{"Ana", "", "111", "", "Contactar Luego", "llamar martes"},
		})
		target := models.Contact{FirstName: "Ana", Phone: "111", Status: models.StatusCallBack, Note: "llamar martes"}

		require.NoError(t, repo.UpdateStatus(ctx, target, models.StatusAccepted, ""))
		assert.Equal(t, "llamar martes", ms.Rows()[0][models.ColNote])
	})

	t.Run("row gone", func(t *testing.T) {
		repo, _ := seedRepo(t, nil)
		err := repo.UpdateStatus(ctx, models.Contact{Phone: "111"}, models.StatusAccepted, "")
		assert.ErrorIs(t, err, domain.ErrRowNotFound)
	})
}

func TestContactRepoFilterByStatus(t *testing.T) {
	ctx := context.Background()
	repo, _ := seedRepo(t, [][]string{
		{"Ana", "", "111", "", "Pendiente", ""},
		{"Juan", "", "222", "", "Aceptado", ""},
		{"Lola", "", "333", "", "", ""},
	})

	pending, err := repo.FilterByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2, "blank status counts as pending")

	accepted, err := repo.FilterByStatus(ctx, models.StatusAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, "Juan", accepted[0].FirstName)
}
