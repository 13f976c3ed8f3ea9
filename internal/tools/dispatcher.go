package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/ident"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/policy"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/run"
)

// ErrNotPending is returned by Resolve when the call is unknown, already
// complete, or was discarded by a run abort.
var ErrNotPending = fmt.Errorf("tool call is not pending")

type pendingCall struct {
	call    *domain.ToolCall
	handler *Handler
	inv     Invocation
	done    chan json.RawMessage
}

// Dispatcher owns tool call state transitions. Human-gated calls are held as
// pending-resolution slots keyed by call id, resolved by a separate inbound
// action, never by a blocked thread.
type Dispatcher struct {
	registry *Registry
	policy   *policy.Engine

	mu      sync.Mutex
	calls   map[string]*domain.ToolCall
	pending map[string]*pendingCall
}

// NewDispatcher creates a dispatcher over the given registry. The policy
// engine may be nil, leaving gating entirely to the registry flags.
func NewDispatcher(registry *Registry, pol *policy.Engine) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		policy:   pol,
		calls:    make(map[string]*domain.ToolCall),
		pending:  make(map[string]*pendingCall),
	}
}

// Dispatch handles one agent-requested tool call on behalf of the given run
// engine. For an immediately-completed call the returned channel is nil. For
// a human-gated call the channel delivers the resolution once Resolve is
// invoked; the caller owns the wait and the closing ToolCallCompleted.
func (d *Dispatcher) Dispatch(ctx context.Context, eng *run.Engine, name string, args json.RawMessage) (*domain.ToolCall, <-chan json.RawMessage, error) {
	call := &domain.ToolCall{
		CallID:    ident.NewCallID(),
		RunID:     eng.Run.RunID,
		Name:      name,
		Status:    domain.ToolCallStatusInProgress,
		Args:      args,
		CreatedAt: time.Now(),
	}
	d.track(call)

	handler, ok := d.registry.Lookup(name)
	if !ok {
		return call, nil, d.completeWithError(eng, call, "unknown_tool", fmt.Sprintf("no handler registered for %s", name))
	}

	if handler.Validate != nil {
		if err := handler.Validate(args); err != nil {
			return call, nil, d.completeWithError(eng, call, "invalid_arguments", err.Error())
		}
	}

	decision := policy.DecisionAllow
	if d.policy != nil {
		var err error
		decision, err = d.policy.Evaluate(ctx, policyInput(eng.Run.ThreadID, name, args))
		if err != nil {
			return call, nil, fmt.Errorf("policy evaluation failed: %w", err)
		}
	}
	if decision == policy.DecisionBlock {
		return call, nil, d.completeWithError(eng, call, "blocked", fmt.Sprintf("policy blocked %s", name))
	}

	inv := Invocation{ThreadID: eng.Run.ThreadID, CallID: call.CallID, Args: args}
	gated := handler.RequiresApproval || decision == policy.DecisionRequireApproval

	if !gated {
		d.setStatus(call, domain.ToolCallStatusExecuting)
		if err := eng.ToolCallStarted(call, false); err != nil {
			return call, nil, err
		}
		result, err := handler.Execute(ctx, inv)
		if err != nil {
			return call, nil, d.endWithError(eng, call, "execution_failed", err.Error())
		}
		d.complete(call, result)
		return call, nil, eng.ToolCallCompleted(call)
	}

	// Human-gated: present via the renderer and suspend on a pending slot.
	rendered := args
	if handler.Render != nil {
		var err error
		rendered, err = handler.Render(args)
		if err != nil {
			return call, nil, d.completeWithError(eng, call, "render_failed", err.Error())
		}
	}
	call.Args = rendered
	d.setStatus(call, domain.ToolCallStatusExecuting)

	// The pending slot must exist before the call is announced: a resolve
	// action may arrive the moment the interface sees ToolCallStart.
	done := make(chan json.RawMessage, 1)
	d.mu.Lock()
	d.pending[call.CallID] = &pendingCall{call: call, handler: handler, inv: inv, done: done}
	d.mu.Unlock()

	if err := eng.ToolCallStarted(call, true); err != nil {
		d.mu.Lock()
		delete(d.pending, call.CallID)
		d.mu.Unlock()
		return call, nil, err
	}
	return call, done, nil
}

// Resolve records the human decision for a pending gated call and delivers
// it to the suspended run.
func (d *Dispatcher) Resolve(callID string, resolution json.RawMessage, decline bool) error {
	d.mu.Lock()
	p, ok := d.pending[callID]
	if ok {
		delete(d.pending, callID)
	}
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("tool call %s: %w", callID, ErrNotPending)
	}

	value := resolution
	if decline {
		if p.handler.Decline != nil {
			value = p.handler.Decline()
		} else {
			// Policy-gated tools without their own decline text get a
			// generic one.
			value, _ = json.Marshal(map[string]string{"message": "The user declined the request."})
		}
	} else if p.handler.Resolve != nil {
		var err error
		value, err = p.handler.Resolve(p.inv, resolution)
		if err != nil {
			// A malformed accept does not consume the pending slot.
			d.mu.Lock()
			d.pending[callID] = p
			d.mu.Unlock()
			return fmt.Errorf("failed to resolve tool call %s: %w", callID, err)
		}
	}

	d.complete(p.call, value)
	p.done <- value
	return nil
}

// DiscardRun drops every pending gated call belonging to an aborted run. No
// resolution is ever recorded for a discarded call.
func (d *Dispatcher) DiscardRun(runID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, p := range d.pending {
		if p.call.RunID == runID {
			delete(d.pending, id)
		}
	}
}

// GetCall returns a snapshot of a tracked tool call by id. The live struct
// is mutated under the dispatcher lock as the run progresses, so callers get
// a copy they can read and marshal freely.
func (d *Dispatcher) GetCall(callID string) (domain.ToolCall, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	call, ok := d.calls[callID]
	if !ok {
		return domain.ToolCall{}, false
	}
	return *call, true
}

func (d *Dispatcher) track(call *domain.ToolCall) {
	d.mu.Lock()
	d.calls[call.CallID] = call
	d.mu.Unlock()
}

func (d *Dispatcher) setStatus(call *domain.ToolCall, status domain.ToolCallStatus) {
	d.mu.Lock()
	call.Status = status
	d.mu.Unlock()
}

func (d *Dispatcher) complete(call *domain.ToolCall, resolution json.RawMessage) {
	now := time.Now()
	d.mu.Lock()
	call.Status = domain.ToolCallStatusComplete
	call.Resolution = resolution
	call.CompletedAt = &now
	d.mu.Unlock()
}

func (d *Dispatcher) completeWithError(eng *run.Engine, call *domain.ToolCall, code, message string) error {
	resolution, _ := json.Marshal(map[string]string{"error": code, "message": message})
	d.complete(call, resolution)
	if err := eng.ToolCallStarted(call, false); err != nil {
		return err
	}
	return eng.ToolCallCompleted(call)
}

func (d *Dispatcher) endWithError(eng *run.Engine, call *domain.ToolCall, code, message string) error {
	resolution, _ := json.Marshal(map[string]string{"error": code, "message": message})
	d.complete(call, resolution)
	return eng.ToolCallCompleted(call)
}

func policyInput(threadID, name string, args json.RawMessage) map[string]any {
	input := map[string]any{
		"thread_id": threadID,
		"tool_name": name,
		"args":      map[string]any{},
	}
	if len(args) > 0 {
		var m map[string]any
		if err := json.Unmarshal(args, &m); err == nil {
			input["args"] = m
		}
	}
	return input
}
