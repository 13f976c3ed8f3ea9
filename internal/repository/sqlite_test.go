package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
)

func TestSQLiteStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	t.Run("Missing Thread Loads Nil", func(t *testing.T) {
		st, err := repo.LoadState(ctx, "nowhere")
		require.NoError(t, err)
		assert.Nil(t, st)
	})

	t.Run("Save Then Load", func(t *testing.T) {
		saved := domain.SharedState{
			Version: 3,
			Todos: []domain.TodoItem{
				{ID: "a", Title: "Research", Description: "Collect notes", Emoji: "🔍", Status: domain.TodoStatusPending},
				{ID: "b", Title: "Draft", Description: "Outline sections", Emoji: "📝", Status: domain.TodoStatusCompleted},
			},
		}
		require.NoError(t, repo.SaveState(ctx, "t1", saved))

		loaded, err := repo.LoadState(ctx, "t1")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, saved, *loaded)
	})

	t.Run("Save Upserts", func(t *testing.T) {
		require.NoError(t, repo.SaveState(ctx, "t1", domain.SharedState{Version: 4, Todos: []domain.TodoItem{}}))

		loaded, err := repo.LoadState(ctx, "t1")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, int64(4), loaded.Version)
		assert.Empty(t, loaded.Todos)
	})
}
