package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/tools"
)

// ResolveToolCall records the human decision for a pending gated tool call.
func (h *Handler) ResolveToolCall(c echo.Context) error {
	callID := c.Param("call_id")

	var req domain.ResolveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.service.ResolveToolCall(callID, req); err != nil {
		if errors.Is(err, tools.ErrNotPending) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"call_id": callID, "status": "resolved"})
}

// GetToolCall returns one tracked tool call.
func (h *Handler) GetToolCall(c echo.Context) error {
	call, err := h.service.GetToolCall(c.Param("call_id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, call)
}
