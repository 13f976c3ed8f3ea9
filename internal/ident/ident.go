// Package ident allocates protocol identifiers for runs, messages and tool calls.
package ident

import "github.com/google/uuid"

// DefaultThreadID groups runs that were submitted without an explicit thread label.
const DefaultThreadID = "default-thread"

// NewRunID returns a process-unique run identifier.
func NewRunID() string {
	return "run_" + uuid.New().String()
}

// NewMessageID returns a process-unique message identifier.
func NewMessageID() string {
	return "msg_" + uuid.New().String()
}

// NewCallID returns a process-unique tool call identifier.
func NewCallID() string {
	return "call_" + uuid.New().String()
}

// NewTodoID returns an identifier for a task item in the shared canvas state.
func NewTodoID() string {
	return uuid.New().String()
}

// ResolveThreadID returns the given thread label, or DefaultThreadID when empty.
func ResolveThreadID(label string) string {
	if label == "" {
		return DefaultThreadID
	}
	return label
}
