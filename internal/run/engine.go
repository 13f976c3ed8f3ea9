// Package run drives one execution from start to terminal state, emitting
// protocol events in the order the stream contract requires.
package run

import (
	"context"
	"fmt"
	"time"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/ident"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/protocol"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/sse"
)

var (
	// ErrRunTerminal is returned when an operation is attempted on a run
	// that has already finished or aborted.
	ErrRunTerminal = fmt.Errorf("run is terminal")
	// ErrToolCallsOpen is returned by Finish while tool calls are outstanding.
	ErrToolCallsOpen = fmt.Errorf("tool calls still open")
	// ErrAwaitingTool is returned when content emission is attempted while
	// the run is suspended on a human-gated tool call.
	ErrAwaitingTool = fmt.Errorf("run is awaiting tool resolution")
)

// Engine owns one run's lifecycle and is the sole writer of its state and of
// the run's event stream. All methods must be called from the run's single
// goroutine of control.
type Engine struct {
	Run     *domain.Run
	Message *domain.Message

	sink  sse.Sink
	delay time.Duration
	open  map[string]bool
}

// NewEngine creates the engine for a freshly created run. delay paces token
// emission; zero is legal and changes timing only.
func NewEngine(r *domain.Run, sink sse.Sink, delay time.Duration) *Engine {
	return &Engine{
		Run:   r,
		sink:  sink,
		delay: delay,
		open:  make(map[string]bool),
	}
}

func (e *Engine) emit(t protocol.EventType, payload any) error {
	frame, err := protocol.Encode(t, payload)
	if err != nil {
		return err
	}
	return e.sink.Write(frame)
}

// RecordUser appends the inbound user message to the run transcript. It is
// part of the run's record only; nothing is emitted for it.
func (e *Engine) RecordUser(messageID, content string) {
	e.Run.Messages = append(e.Run.Messages, &domain.Message{
		MessageID: messageID,
		RunID:     e.Run.RunID,
		Role:      domain.RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// Begin moves the run to Streaming, opening it on the stream with RunStarted
// followed by TextMessageStart for the assistant message.
func (e *Engine) Begin(messageID string) error {
	if e.Run.Status != domain.RunStatusCreated {
		return fmt.Errorf("begin: run %s is %s", e.Run.RunID, e.Run.Status)
	}
	now := time.Now()
	e.Message = &domain.Message{
		MessageID: messageID,
		RunID:     e.Run.RunID,
		Role:      domain.RoleAssistant,
		CreatedAt: now,
	}
	e.Run.Messages = append(e.Run.Messages, e.Message)
	e.Run.Status = domain.RunStatusStreaming

	if err := e.emit(protocol.EventTypeRunStarted, protocol.RunStartedPayload{
		RunID:     e.Run.RunID,
		ThreadID:  e.Run.ThreadID,
		Timestamp: now.UnixMilli(),
	}); err != nil {
		return err
	}
	return e.emit(protocol.EventTypeTextMessageStart, protocol.TextMessageStartPayload{
		MessageID: messageID,
		Role:      string(domain.RoleAssistant),
		Timestamp: now.UnixMilli(),
	})
}

// StreamText splits text into deltas and emits one TextMessageContent per
// delta, pacing them by the configured delay. The wait is a plain timer
// select; no lock is held while suspended. Emission stops with ctx.Err when
// the context is cancelled mid-stream.
func (e *Engine) StreamText(ctx context.Context, text string) error {
	if e.Run.Status.Terminal() {
		return ErrRunTerminal
	}
	if e.Run.Status == domain.RunStatusAwaitingTool {
		return ErrAwaitingTool
	}

	for _, delta := range SplitDeltas(text) {
		if e.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.delay):
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		e.Message.Content += delta
		if err := e.emit(protocol.EventTypeTextMessageContent, protocol.TextMessageContentPayload{
			MessageID: e.Message.MessageID,
			Delta:     delta,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ToolCallStarted records a dispatched call and announces it on the stream.
// A gated call moves the run to AwaitingTool; the run cannot finish, nor
// emit further message content, until every open call completes.
func (e *Engine) ToolCallStarted(call *domain.ToolCall, gated bool) error {
	if e.Run.Status.Terminal() {
		return ErrRunTerminal
	}
	e.open[call.CallID] = true
	if gated {
		e.Run.Status = domain.RunStatusAwaitingTool
	}

	if err := e.emit(protocol.EventTypeToolCallStart, protocol.ToolCallStartPayload{
		CallID: call.CallID,
		Name:   call.Name,
	}); err != nil {
		return err
	}
	return e.emit(protocol.EventTypeToolCallArgs, protocol.ToolCallArgsPayload{
		CallID: call.CallID,
		Name:   call.Name,
		Args:   call.Args,
	})
}

// ToolCallCompleted closes a call on the stream. When the last open call
// completes, an AwaitingTool run resumes Streaming.
func (e *Engine) ToolCallCompleted(call *domain.ToolCall) error {
	if e.Run.Status.Terminal() {
		return ErrRunTerminal
	}
	delete(e.open, call.CallID)
	if len(e.open) == 0 && e.Run.Status == domain.RunStatusAwaitingTool {
		e.Run.Status = domain.RunStatusStreaming
	}
	if len(call.Resolution) > 0 {
		e.Run.Messages = append(e.Run.Messages, &domain.Message{
			MessageID: ident.NewMessageID(),
			RunID:     e.Run.RunID,
			Role:      domain.RoleTool,
			Content:   string(call.Resolution),
			CreatedAt: time.Now(),
		})
	}
	return e.emit(protocol.EventTypeToolCallEnd, protocol.ToolCallEndPayload{
		CallID:     call.CallID,
		Name:       call.Name,
		Resolution: call.Resolution,
	})
}

// OpenCalls returns the number of outstanding tool calls.
func (e *Engine) OpenCalls() int {
	return len(e.open)
}

// Finish closes the run: TextMessageEnd then RunFinished, exactly once each.
// It refuses while any tool call is open and after a terminal transition.
func (e *Engine) Finish() error {
	if e.Run.Status.Terminal() {
		return ErrRunTerminal
	}
	if len(e.open) > 0 {
		return ErrToolCallsOpen
	}
	now := time.Now()
	e.Run.Status = domain.RunStatusFinished
	e.Run.EndedAt = &now

	if err := e.emit(protocol.EventTypeTextMessageEnd, protocol.TextMessageEndPayload{
		MessageID: e.Message.MessageID,
	}); err != nil {
		return err
	}
	return e.emit(protocol.EventTypeRunFinished, protocol.RunFinishedPayload{
		RunID:     e.Run.RunID,
		ThreadID:  e.Run.ThreadID,
		Timestamp: now.UnixMilli(),
	})
}

// Abort moves the run to Aborted and surfaces RunAborted in place of the
// finish pair. A run already terminal is left untouched, so RunFinished and
// RunAborted can never both be emitted for the same run. The emit is best
// effort: on a dead transport the abort still takes effect locally.
func (e *Engine) Abort(reason string) {
	if e.Run.Status.Terminal() {
		return
	}
	now := time.Now()
	e.Run.Status = domain.RunStatusAborted
	e.Run.EndedAt = &now
	e.open = make(map[string]bool)

	_ = e.emit(protocol.EventTypeRunAborted, protocol.RunAbortedPayload{
		RunID:    e.Run.RunID,
		ThreadID: e.Run.ThreadID,
		Reason:   reason,
	})
}
