package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/agents"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/ident"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/run"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/sse"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/tools"
)

// RunStream executes one run for the given agent, emitting the protocol
// event sequence onto sink. It blocks until the run reaches a terminal
// state; the caller's goroutine is the run's single thread of control.
// Cancelling ctx (client disconnect) aborts the run.
func (s *Service) RunStream(ctx context.Context, sink sse.Sink, agentID string, req domain.SubmitRequest) (*domain.Run, error) {
	script, ok := s.agents.Lookup(agentID)
	if !ok {
		return nil, fmt.Errorf("agent %s not found", agentID)
	}

	label := req.ThreadID
	if label == "" {
		label = script.ThreadLabel
	}
	threadID := ident.ResolveThreadID(label)

	r := &domain.Run{
		RunID:     ident.NewRunID(),
		ThreadID:  threadID,
		AgentID:   agentID,
		Status:    domain.RunStatusCreated,
		StartedAt: time.Now(),
	}
	if err := s.claimThread(threadID, r.RunID); err != nil {
		return nil, err
	}
	defer s.releaseThread(threadID)

	delay := script.Delay
	if s.cfg.StreamDelay >= 0 {
		delay = s.cfg.StreamDelay
	}
	eng := run.NewEngine(r, sink, delay)
	if req.Content != "" {
		eng.RecordUser(ident.NewMessageID(), req.Content)
	}

	if err := s.drive(ctx, eng, script.Steps); err != nil {
		reason := "internal failure"
		if ctx.Err() != nil || errors.Is(err, sse.ErrStreamClosed) {
			reason = "transport closed"
		}
		log.Printf("ERROR: run %s aborted: %v", r.RunID, err)
		eng.Abort(reason)
		s.dispatcher.DiscardRun(r.RunID)
	}
	return r, nil
}

func (s *Service) drive(ctx context.Context, eng *run.Engine, steps []agents.Step) error {
	if err := eng.Begin(ident.NewMessageID()); err != nil {
		return err
	}

	for _, step := range steps {
		switch {
		case step.Tool != "":
			call, pending, err := s.dispatcher.Dispatch(ctx, eng, step.Tool, step.Args)
			if err != nil {
				return err
			}
			if pending == nil {
				continue
			}
			// Human-gated: the run waits here, suspended, until the
			// resolve action lands or the client goes away. An optional
			// configured timeout declines on the human's behalf.
			if err := s.awaitResolution(ctx, eng, call, pending); err != nil {
				return err
			}

		case step.Text != "":
			if err := eng.StreamText(ctx, step.Text); err != nil {
				return err
			}
		}
	}
	return eng.Finish()
}

func (s *Service) awaitResolution(ctx context.Context, eng *run.Engine, call *domain.ToolCall, pending <-chan json.RawMessage) error {
	var timeout <-chan time.Time
	if s.cfg.ResolveTimeout > 0 {
		t := time.NewTimer(s.cfg.ResolveTimeout)
		defer t.Stop()
		timeout = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout:
			// Decline-by-default: treat the silence as a decline and let
			// the run proceed with the handler's decline resolution.
			log.Printf("WARN: tool call %s unresolved after %s, declining", call.CallID, s.cfg.ResolveTimeout)
			if err := s.dispatcher.Resolve(call.CallID, nil, true); err != nil {
				// A resolve that raced the timeout has already consumed
				// the slot; its resolution is sitting in pending.
				if !errors.Is(err, tools.ErrNotPending) {
					return err
				}
			}
			timeout = nil
		case <-pending:
			return eng.ToolCallCompleted(call)
		}
	}
}
