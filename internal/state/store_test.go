package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
)

func TestStoreVersioning(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	t.Run("Fresh Thread Reads Version Zero", func(t *testing.T) {
		st := store.Read(ctx, "t1")
		assert.Equal(t, int64(0), st.Version)
		assert.Empty(t, st.Todos)
	})

	t.Run("Write Bumps Version", func(t *testing.T) {
		st, err := store.Write(ctx, "t1", 0, AddTodo())
		require.NoError(t, err)
		assert.Equal(t, int64(1), st.Version)
		assert.Len(t, st.Todos, 1)
	})

	t.Run("Stale Version Conflicts", func(t *testing.T) {
		_, err := store.Write(ctx, "t1", 0, AddTodo())
		assert.ErrorIs(t, err, ErrConflict)

		// Fresh read then write succeeds.
		cur := store.Read(ctx, "t1")
		st, err := store.Write(ctx, "t1", cur.Version, AddTodo())
		require.NoError(t, err)
		assert.Equal(t, cur.Version+1, st.Version)
	})

	t.Run("Versions Are Per Thread", func(t *testing.T) {
		st, err := store.Write(ctx, "t2", 0, AddTodo())
		require.NoError(t, err)
		assert.Equal(t, int64(1), st.Version)
	})
}

func TestStoreMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("Add Yields Pending Item With Defaults", func(t *testing.T) {
		store := NewStore(nil)
		st, err := store.Write(ctx, "t", 0, AddTodo())
		require.NoError(t, err)
		require.Len(t, st.Todos, 1)

		item := st.Todos[0]
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, "New Todo", item.Title)
		assert.Equal(t, "Add a description", item.Description)
		assert.Equal(t, "✅", item.Emoji)
		assert.Equal(t, domain.TodoStatusPending, item.Status)
	})

	t.Run("Toggle Moves Between Groups And Back", func(t *testing.T) {
		store := NewStore(nil)
		st, err := store.Write(ctx, "t", 0, AddTodo())
		require.NoError(t, err)
		id := st.Todos[0].ID

		st, err = store.Write(ctx, "t", st.Version, ToggleTodo(id))
		require.NoError(t, err)
		assert.Equal(t, domain.TodoStatusCompleted, st.Todos[0].Status)

		st, err = store.Write(ctx, "t", st.Version, ToggleTodo(id))
		require.NoError(t, err)
		assert.Equal(t, domain.TodoStatusPending, st.Todos[0].Status)
	})

	t.Run("Toggle Leaves Other Items Alone", func(t *testing.T) {
		store := NewStore(nil)
		st, err := store.Write(ctx, "t", 0, AddTodo())
		require.NoError(t, err)
		st, err = store.Write(ctx, "t", st.Version, AddTodo())
		require.NoError(t, err)

		st, err = store.Write(ctx, "t", st.Version, ToggleTodo(st.Todos[0].ID))
		require.NoError(t, err)
		assert.Equal(t, domain.TodoStatusCompleted, st.Todos[0].Status)
		assert.Equal(t, domain.TodoStatusPending, st.Todos[1].Status)
	})

	t.Run("Delete And Edit", func(t *testing.T) {
		store := NewStore(nil)
		st, err := store.Write(ctx, "t", 0, AddTodo())
		require.NoError(t, err)
		st, err = store.Write(ctx, "t", st.Version, AddTodo())
		require.NoError(t, err)
		keep := st.Todos[1].ID

		st, err = store.Write(ctx, "t", st.Version, DeleteTodo(st.Todos[0].ID))
		require.NoError(t, err)
		require.Len(t, st.Todos, 1)
		assert.Equal(t, keep, st.Todos[0].ID)

		st, err = store.Write(ctx, "t", st.Version, EditTitle(keep, "Ship it"))
		require.NoError(t, err)
		assert.Equal(t, "Ship it", st.Todos[0].Title)

		st, err = store.Write(ctx, "t", st.Version, EditDescription(keep, "Before Friday"))
		require.NoError(t, err)
		assert.Equal(t, "Before Friday", st.Todos[0].Description)
	})

	t.Run("Replace Swaps Whole List", func(t *testing.T) {
		store := NewStore(nil)
		st, err := store.Write(ctx, "t", 0, AddTodo())
		require.NoError(t, err)

		plan := []domain.TodoItem{
			{ID: "a", Title: "Research", Status: domain.TodoStatusPending},
			{ID: "b", Title: "Draft", Status: domain.TodoStatusPending},
		}
		st, err = store.Write(ctx, "t", st.Version, ReplaceTodos(plan))
		require.NoError(t, err)
		require.Len(t, st.Todos, 2)
		assert.Equal(t, "Research", st.Todos[0].Title)
	})
}

func TestStoreSubscriptions(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	notes, cancel := store.Subscribe("t")
	defer cancel()

	st, err := store.Write(ctx, "t", 0, AddTodo())
	require.NoError(t, err)

	note := <-notes
	assert.Equal(t, "t", note.ThreadID)
	assert.Equal(t, st.Version, note.State.Version)
	require.Len(t, note.State.Todos, 1)

	// Writes to other threads do not notify this subscriber.
	_, err = store.Write(ctx, "other", 0, AddTodo())
	require.NoError(t, err)
	select {
	case extra := <-notes:
		t.Fatalf("unexpected notification for thread %s", extra.ThreadID)
	default:
	}

	// Versions observed by one subscriber never decrease.
	last := note.State.Version
	for i := 0; i < 3; i++ {
		st, err = store.Write(ctx, "t", st.Version, AddTodo())
		require.NoError(t, err)
		got := <-notes
		assert.Greater(t, got.State.Version, last)
		last = got.State.Version
	}
}

func TestStoreSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	st, err := store.Write(ctx, "t", 0, AddTodo())
	require.NoError(t, err)

	// Mutating a returned snapshot does not leak into the store.
	st.Todos[0].Title = "tampered"
	fresh := store.Read(ctx, "t")
	assert.Equal(t, "New Todo", fresh.Todos[0].Title)
}
