// Package state holds the versioned document shared between the agent and
// the interface, reconciled with optimistic concurrency.
package state

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
)

// ErrConflict rejects a write whose expected version is stale. The caller
// must re-read and retry; the store never retries on its own.
var ErrConflict = fmt.Errorf("state version conflict")

// Mutation transforms a snapshot of the task list into its successor. All
// operations are whole-list read-modify-write, never independent field
// patches, so a human edit and an agent edit landing together cannot lose
// updates.
type Mutation func(todos []domain.TodoItem) []domain.TodoItem

// Notification is published to subscribers on every successful write.
type Notification struct {
	ThreadID string
	State    domain.SharedState
}

// Persistence is the durable backing for thread state. It may be nil, in
// which case the store is memory-only.
type Persistence interface {
	LoadState(ctx context.Context, threadID string) (*domain.SharedState, error)
	SaveState(ctx context.Context, threadID string, st domain.SharedState) error
}

// Store is the single source of truth for shared state, one document per
// thread. It is the only mutable resource shared across concurrent runs and
// interface sessions; the version check serializes writers.
type Store struct {
	mu      sync.Mutex
	states  map[string]domain.SharedState
	subs    map[string]map[int64]chan Notification
	nextSub int64
	persist Persistence
}

// NewStore creates a store, optionally backed by persist.
func NewStore(persist Persistence) *Store {
	return &Store{
		states:  make(map[string]domain.SharedState),
		subs:    make(map[string]map[int64]chan Notification),
		persist: persist,
	}
}

func (s *Store) load(ctx context.Context, threadID string) domain.SharedState {
	if st, ok := s.states[threadID]; ok {
		return st
	}
	if s.persist != nil {
		if st, err := s.persist.LoadState(ctx, threadID); err != nil {
			log.Printf("WARN: failed to load state for thread %s: %v", threadID, err)
		} else if st != nil {
			s.states[threadID] = *st
			return *st
		}
	}
	empty := domain.SharedState{Version: 0, Todos: []domain.TodoItem{}}
	s.states[threadID] = empty
	return empty
}

// Read returns the current version and payload for a thread. A thread never
// written before reads as version 0 with an empty task list.
func (s *Store) Read(ctx context.Context, threadID string) domain.SharedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.load(ctx, threadID))
}

// Write applies mutate against the current snapshot iff expectedVersion
// matches the store's version at call time, bumps the version, persists,
// and notifies subscribers. A stale expectedVersion fails with ErrConflict.
func (s *Store) Write(ctx context.Context, threadID string, expectedVersion int64, mutate Mutation) (domain.SharedState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.load(ctx, threadID)
	if cur.Version != expectedVersion {
		return domain.SharedState{}, fmt.Errorf("thread %s at version %d, expected %d: %w",
			threadID, cur.Version, expectedVersion, ErrConflict)
	}

	next := domain.SharedState{
		Version: cur.Version + 1,
		Todos:   mutate(cloneTodos(cur.Todos)),
	}
	if next.Todos == nil {
		next.Todos = []domain.TodoItem{}
	}
	s.states[threadID] = next

	if s.persist != nil {
		if err := s.persist.SaveState(ctx, threadID, next); err != nil {
			log.Printf("ERROR: failed to persist state for thread %s: %v", threadID, err)
		}
	}

	note := Notification{ThreadID: threadID, State: cloneState(next)}
	for _, ch := range s.subs[threadID] {
		select {
		case ch <- note:
		default:
			// Slow subscriber; it will catch up on the next write.
		}
	}
	return cloneState(next), nil
}

// Subscribe registers for notifications on a thread's writes. The returned
// cancel func releases the subscription and closes the channel.
func (s *Store) Subscribe(threadID string) (<-chan Notification, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Notification, 16)
	if s.subs[threadID] == nil {
		s.subs[threadID] = make(map[int64]chan Notification)
	}
	s.subs[threadID][id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[threadID][id]; ok {
			delete(s.subs[threadID], id)
			close(sub)
		}
	}
	return ch, cancel
}

func cloneState(st domain.SharedState) domain.SharedState {
	return domain.SharedState{Version: st.Version, Todos: cloneTodos(st.Todos)}
}

func cloneTodos(todos []domain.TodoItem) []domain.TodoItem {
	out := make([]domain.TodoItem, len(todos))
	copy(out, todos)
	return out
}
