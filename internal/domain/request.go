package domain

import "encoding/json"

// SubmitRequest is the inbound submit-message action that starts a run.
type SubmitRequest struct {
	ThreadID string `json:"thread_id,omitempty"`
	Content  string `json:"content"`
}

// ResolveRequest is the inbound action that resolves a pending human-gated
// tool call. Either Resolution carries the accepted value, or Decline is set.
type ResolveRequest struct {
	Resolution json.RawMessage `json:"resolution,omitempty"`
	Decline    bool            `json:"decline,omitempty"`
}

// StateWriteRequest is the inbound shared-state write action. Op selects one
// of the read-modify-write mutations; the remaining fields parameterize it.
type StateWriteRequest struct {
	ExpectedVersion int64  `json:"expected_version"`
	Op              string `json:"op"` // add | toggle | delete | edit_title | edit_description
	TodoID          string `json:"todo_id,omitempty"`
	Title           string `json:"title,omitempty"`
	Description     string `json:"description,omitempty"`
}

// StateWriteResponse reports the version a successful write produced.
type StateWriteResponse struct {
	ThreadID string      `json:"thread_id"`
	Version  int64       `json:"version"`
	State    SharedState `json:"state"`
}
