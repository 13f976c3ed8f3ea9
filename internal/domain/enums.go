// Package domain defines the core records of the agent-UI coordination engine.
package domain

// RunStatus represents the lifecycle state of a run.
type RunStatus string

const (
	RunStatusCreated      RunStatus = "CREATED"
	RunStatusStreaming    RunStatus = "STREAMING"
	RunStatusAwaitingTool RunStatus = "AWAITING_TOOL"
	RunStatusFinished     RunStatus = "FINISHED"
	RunStatusAborted      RunStatus = "ABORTED"
)

// Terminal reports whether the status is final.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusFinished, RunStatusAborted:
		return true
	}
	return false
}

// ToolCallStatus represents the lifecycle state of a tool call.
type ToolCallStatus string

const (
	// ToolCallStatusInProgress means the call's arguments are still streaming.
	ToolCallStatusInProgress ToolCallStatus = "IN_PROGRESS"
	// ToolCallStatusExecuting means the handler is running, or a human-gated
	// call is waiting for its resolution.
	ToolCallStatusExecuting ToolCallStatus = "EXECUTING"
	// ToolCallStatusComplete is terminal; the call carries its resolution.
	ToolCallStatusComplete ToolCallStatus = "COMPLETE"
)

// TodoStatus is the state of one task item in the shared canvas.
type TodoStatus string

const (
	TodoStatusPending   TodoStatus = "pending"
	TodoStatusCompleted TodoStatus = "completed"
)

// MessageRole identifies who produced a message.
type MessageRole string

const (
	RoleAssistant MessageRole = "assistant"
	RoleUser      MessageRole = "user"
	RoleTool      MessageRole = "tool"
)
