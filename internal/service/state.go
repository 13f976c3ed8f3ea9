package service

import (
	"context"
	"fmt"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/ident"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/state"
)

// ReadState returns a thread's current shared state.
func (s *Service) ReadState(ctx context.Context, threadID string) domain.SharedState {
	return s.states.Read(ctx, ident.ResolveThreadID(threadID))
}

// WriteState applies one interface-side mutation through the versioned write
// path. A stale expected version surfaces state.ErrConflict for the caller
// to re-read and retry.
func (s *Service) WriteState(ctx context.Context, threadID string, req domain.StateWriteRequest) (domain.SharedState, error) {
	var mutation state.Mutation
	switch req.Op {
	case "add":
		mutation = state.AddTodo()
	case "toggle":
		mutation = state.ToggleTodo(req.TodoID)
	case "delete":
		mutation = state.DeleteTodo(req.TodoID)
	case "edit_title":
		mutation = state.EditTitle(req.TodoID, req.Title)
	case "edit_description":
		mutation = state.EditDescription(req.TodoID, req.Description)
	default:
		return domain.SharedState{}, fmt.Errorf("unknown state op %q", req.Op)
	}
	return s.states.Write(ctx, ident.ResolveThreadID(threadID), req.ExpectedVersion, mutation)
}
