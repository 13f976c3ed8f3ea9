package protocol

import (
	"encoding/json"
	"fmt"
)

// ErrProtocolViolation marks an event sequence a conforming producer can
// never emit. Violations are fatal to the affected run and must be surfaced,
// never swallowed.
var ErrProtocolViolation = fmt.Errorf("protocol violation")

// RunObserver validates the event sequence of a single run as a consumer
// sees it. Feed it every decoded event in arrival order.
type RunObserver struct {
	started      bool
	finished     bool
	aborted      bool
	openMessages map[string]bool
}

// NewRunObserver returns an observer for one run's stream.
func NewRunObserver() *RunObserver {
	return &RunObserver{openMessages: make(map[string]bool)}
}

// Observe checks one event against the run's accumulated state.
func (o *RunObserver) Observe(ev *Event) error {
	if o.finished && ev.Type == EventTypeRunAborted {
		return fmt.Errorf("%w: RunAborted after RunFinished", ErrProtocolViolation)
	}
	if o.aborted && ev.Type == EventTypeRunFinished {
		return fmt.Errorf("%w: RunFinished after RunAborted", ErrProtocolViolation)
	}

	switch ev.Type {
	case EventTypeRunStarted:
		if o.started {
			return fmt.Errorf("%w: duplicate RunStarted", ErrProtocolViolation)
		}
		o.started = true

	case EventTypeTextMessageStart:
		var p TextMessageStartPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return fmt.Errorf("%w: bad TextMessageStart payload", ErrProtocolViolation)
		}
		if o.openMessages[p.MessageID] {
			return fmt.Errorf("%w: duplicate TextMessageStart for %s", ErrProtocolViolation, p.MessageID)
		}
		o.openMessages[p.MessageID] = true

	case EventTypeTextMessageContent:
		var p TextMessageContentPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return fmt.Errorf("%w: bad TextMessageContent payload", ErrProtocolViolation)
		}
		if !o.openMessages[p.MessageID] {
			return fmt.Errorf("%w: TextMessageContent without TextMessageStart", ErrProtocolViolation)
		}

	case EventTypeTextMessageEnd:
		var p TextMessageEndPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return fmt.Errorf("%w: bad TextMessageEnd payload", ErrProtocolViolation)
		}
		if !o.openMessages[p.MessageID] {
			return fmt.Errorf("%w: TextMessageEnd without TextMessageStart", ErrProtocolViolation)
		}
		delete(o.openMessages, p.MessageID)

	case EventTypeRunFinished:
		if o.finished {
			return fmt.Errorf("%w: duplicate RunFinished", ErrProtocolViolation)
		}
		if len(o.openMessages) > 0 {
			return fmt.Errorf("%w: RunFinished with open message", ErrProtocolViolation)
		}
		o.finished = true

	case EventTypeRunAborted:
		if o.aborted {
			return fmt.Errorf("%w: duplicate RunAborted", ErrProtocolViolation)
		}
		o.aborted = true
	}
	return nil
}

// Closed reports whether the run reached a terminal event.
func (o *RunObserver) Closed() bool {
	return o.finished || o.aborted
}
