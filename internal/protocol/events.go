// Package protocol defines the fixed event vocabulary exchanged between the
// run engine and the interface, and the SSE framing codec for it.
package protocol

import "encoding/json"

// EventType names one of the fixed protocol events. The vocabulary is closed:
// decoding an unknown type is a protocol violation, not a skippable frame.
type EventType string

const (
	EventTypeRunStarted         EventType = "RunStarted"
	EventTypeTextMessageStart   EventType = "TextMessageStart"
	EventTypeTextMessageContent EventType = "TextMessageContent"
	EventTypeTextMessageEnd     EventType = "TextMessageEnd"
	EventTypeRunFinished        EventType = "RunFinished"
	EventTypeRunAborted         EventType = "RunAborted"
	EventTypeToolCallStart      EventType = "ToolCallStart"
	EventTypeToolCallArgs       EventType = "ToolCallArgs"
	EventTypeToolCallEnd        EventType = "ToolCallEnd"
	EventTypeStateDelta         EventType = "StateDelta"
)

var knownTypes = map[EventType]bool{
	EventTypeRunStarted:         true,
	EventTypeTextMessageStart:   true,
	EventTypeTextMessageContent: true,
	EventTypeTextMessageEnd:     true,
	EventTypeRunFinished:        true,
	EventTypeRunAborted:         true,
	EventTypeToolCallStart:      true,
	EventTypeToolCallArgs:       true,
	EventTypeToolCallEnd:        true,
	EventTypeStateDelta:         true,
}

// Known reports whether t belongs to the protocol vocabulary.
func Known(t EventType) bool {
	return knownTypes[t]
}

// Event is one decoded protocol frame.
type Event struct {
	Type EventType
	Data json.RawMessage
}

// RunStartedPayload opens a run on the stream.
type RunStartedPayload struct {
	RunID     string `json:"runId"`
	ThreadID  string `json:"threadId"`
	Timestamp int64  `json:"timestamp"`
}

// TextMessageStartPayload opens an assistant message.
type TextMessageStartPayload struct {
	MessageID string `json:"messageId"`
	Role      string `json:"role"`
	Timestamp int64  `json:"timestamp"`
}

// TextMessageContentPayload carries one text delta of a message.
type TextMessageContentPayload struct {
	MessageID string `json:"messageId"`
	Delta     string `json:"delta"`
}

// TextMessageEndPayload closes a message. It always precedes RunFinished.
type TextMessageEndPayload struct {
	MessageID string `json:"messageId"`
}

// RunFinishedPayload closes a run that ran to completion.
type RunFinishedPayload struct {
	RunID     string `json:"runId"`
	ThreadID  string `json:"threadId"`
	Timestamp int64  `json:"timestamp"`
}

// RunAbortedPayload closes a run that was cut short. A run emits either
// RunFinished or RunAborted, never both.
type RunAbortedPayload struct {
	RunID    string `json:"runId"`
	ThreadID string `json:"threadId"`
	Reason   string `json:"reason"`
}

// ToolCallStartPayload announces a tool call dispatched within a run.
type ToolCallStartPayload struct {
	CallID string `json:"callId"`
	Name   string `json:"name"`
}

// ToolCallArgsPayload carries the call's arguments, or for a human-gated call
// the render payload presented to the user.
type ToolCallArgsPayload struct {
	CallID string          `json:"callId"`
	Name   string          `json:"name"`
	Args   json.RawMessage `json:"argumentsPayload"`
}

// ToolCallEndPayload completes a tool call with its resolution.
type ToolCallEndPayload struct {
	CallID     string          `json:"callId"`
	Name       string          `json:"name"`
	Resolution json.RawMessage `json:"resolution,omitempty"`
}

// StateDeltaPayload broadcasts a new shared-state version.
type StateDeltaPayload struct {
	ThreadID string          `json:"threadId"`
	Version  int64           `json:"version"`
	Payload  json.RawMessage `json:"payload"`
}
