// Package service wires the allocator, run engine, tool dispatcher and
// shared state store into the operations the transport exposes.
package service

import (
	"fmt"
	"sync"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/agents"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/config"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/state"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/tools"
)

// ErrThreadBusy rejects a submit while the thread already has an active run.
var ErrThreadBusy = fmt.Errorf("thread already has an active run")

// Service coordinates runs, tool calls and shared state.
type Service struct {
	cfg        *config.Config
	agents     *agents.Registry
	dispatcher *tools.Dispatcher
	states     *state.Store

	mu     sync.Mutex
	active map[string]string // threadID -> runID
}

// New creates the service.
func New(cfg *config.Config, reg *agents.Registry, dispatcher *tools.Dispatcher, states *state.Store) *Service {
	return &Service{
		cfg:        cfg,
		agents:     reg,
		dispatcher: dispatcher,
		states:     states,
		active:     make(map[string]string),
	}
}

// States exposes the shared state store to transport-level subscribers.
func (s *Service) States() *state.Store {
	return s.states
}

func (s *Service) claimThread(threadID, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, busy := s.active[threadID]; busy {
		return fmt.Errorf("thread %s is running %s: %w", threadID, cur, ErrThreadBusy)
	}
	s.active[threadID] = runID
	return nil
}

func (s *Service) releaseThread(threadID string) {
	s.mu.Lock()
	delete(s.active, threadID)
	s.mu.Unlock()
}
