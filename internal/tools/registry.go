// Package tools matches agent-requested tool calls to registered handlers,
// tracks each call's lifecycle, and suspends runs on human-gated calls.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Invocation carries one tool call's inputs to its handler.
type Invocation struct {
	ThreadID string
	CallID   string
	Args     json.RawMessage
}

// Handler describes one registered tool.
type Handler struct {
	Name string

	// RequiresApproval marks the call human-gated: instead of executing, the
	// dispatcher presents the rendered payload and suspends the run until an
	// explicit resolve action.
	RequiresApproval bool

	// Validate checks the argument shape. A validation failure completes the
	// call with an error resolution; it is never silently ignored.
	Validate func(args json.RawMessage) error

	// Execute runs a non-gated call and returns its resolution value.
	Execute func(ctx context.Context, inv Invocation) (json.RawMessage, error)

	// Render produces the presentation payload shown to the human for a
	// gated call. Optional; defaults to the raw arguments.
	Render func(args json.RawMessage) (json.RawMessage, error)

	// Resolve normalizes an inbound accept resolution for a gated call.
	// Optional; defaults to passing the resolution through untouched.
	Resolve func(inv Invocation, resolution json.RawMessage) (json.RawMessage, error)

	// Decline produces the resolution recorded when the human declines.
	Decline func() json.RawMessage
}

// Registry maps tool names to handler descriptors. Descriptors are validated
// at registration; dispatch is a lookup.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]*Handler)}
}

// Register adds a handler descriptor.
func (r *Registry) Register(h *Handler) error {
	if h == nil || h.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if !h.RequiresApproval && h.Execute == nil {
		return fmt.Errorf("executor is required for %s", h.Name)
	}
	if h.RequiresApproval && h.Decline == nil {
		return fmt.Errorf("decline resolution is required for gated tool %s", h.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[h.Name]; exists {
		return fmt.Errorf("handler already registered for %s", h.Name)
	}
	r.handlers[h.Name] = h
	return nil
}

// MustRegister adds a handler or panics. Used at bootstrap.
func (r *Registry) MustRegister(h *Handler) {
	if err := r.Register(h); err != nil {
		panic(err)
	}
}

// Lookup returns the handler for a tool name.
func (r *Registry) Lookup(name string) (*Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}
