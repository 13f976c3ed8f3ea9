package service

import (
	"fmt"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
)

// ResolveToolCall applies the human decision to a pending gated call. The
// suspended run picks the resolution up and resumes.
func (s *Service) ResolveToolCall(callID string, req domain.ResolveRequest) error {
	if !req.Decline && len(req.Resolution) == 0 {
		return fmt.Errorf("resolution or decline is required")
	}
	return s.dispatcher.Resolve(callID, req.Resolution, req.Decline)
}

// GetToolCall returns a snapshot of a tracked tool call.
func (s *Service) GetToolCall(callID string) (domain.ToolCall, error) {
	call, ok := s.dispatcher.GetCall(callID)
	if !ok {
		return domain.ToolCall{}, fmt.Errorf("tool call not found")
	}
	return call, nil
}
