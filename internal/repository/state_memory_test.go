package repository

import (
	"context"
	"testing"
	"time"

	"listabot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStateRepo()

	t.Run("set get clear", func(t *testing.T) {
		require.NoError(t, repo.SetState(ctx, &models.UserState{UserID: 1, CurrentStep: models.StepPreview}))

		got, err := repo.GetState(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.StepPreview, got.CurrentStep)

		require.NoError(t, repo.ClearState(ctx, 1))
		got, err = repo.GetState(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("rate limit window", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			allowed, err := repo.CheckRateLimit(ctx, 9, 2, 50*time.Millisecond)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
		allowed, err := repo.CheckRateLimit(ctx, 9, 2, 50*time.Millisecond)
		require.NoError(t, err)
		assert.False(t, allowed)

		time.Sleep(60 * time.Millisecond)
		allowed, err = repo.CheckRateLimit(ctx, 9, 2, 50*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}
