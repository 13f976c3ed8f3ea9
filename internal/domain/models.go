package domain

import (
	"encoding/json"
	"time"
)

// Run represents a single execution of an agent in response to a submitted
// message. Exactly one run is active per thread at a time; terminal states
// are final.
type Run struct {
	RunID     string     `json:"run_id"`
	ThreadID  string     `json:"thread_id"`
	AgentID   string     `json:"agent_id"`
	Status    RunStatus  `json:"status"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	// Messages is the run's transcript in arrival order: the inbound user
	// message when one was submitted, the streamed assistant message, and
	// one tool message per completed call.
	Messages []*Message `json:"messages,omitempty"`
}

// Message is one turn's accumulated text within a run. Content is append-only
// until the run emits the closing TextMessageEnd for it.
type Message struct {
	MessageID string      `json:"message_id"`
	RunID     string      `json:"run_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// ToolCall is a structured request, originated by the agent, to invoke a
// named capability. Human-gated calls stay Executing until an explicit
// resolve action supplies a resolution.
type ToolCall struct {
	CallID      string          `json:"call_id"`
	RunID       string          `json:"run_id"`
	Name        string          `json:"name"`
	Status      ToolCallStatus  `json:"status"`
	Args        json.RawMessage `json:"args,omitempty"`
	Resolution  json.RawMessage `json:"resolution,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// TodoItem is one task on the shared canvas. Items are unordered as a set;
// the interface renders them grouped by status.
type TodoItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Emoji       string     `json:"emoji"`
	Status      TodoStatus `json:"status"`
}

// SharedState is the versioned document both the agent and the interface
// read and write. Every mutation goes through the store's versioned write
// path; there is no back-channel that bypasses the version check.
type SharedState struct {
	Version int64      `json:"version"`
	Todos   []TodoItem `json:"todos"`
}
