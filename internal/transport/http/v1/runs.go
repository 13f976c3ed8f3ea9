package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/service"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/sse"
)

// RunAgent starts one run and streams its events back on the open response.
// The handler goroutine is the run's thread of control; the response closes
// when the run reaches a terminal state.
func (h *Handler) RunAgent(c echo.Context) error {
	agentID := c.Param("agent_id")

	var req domain.SubmitRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		}
	}

	stream := sse.Open(c.Response())
	defer stream.Close()

	_, err := h.service.RunStream(c.Request().Context(), stream, agentID, req)
	if err != nil {
		// Nothing was streamed yet; drop the event-stream headers and
		// answer with a plain error.
		header := c.Response().Header()
		header.Del("Content-Type")
		header.Del("Cache-Control")
		header.Del("Connection")

		switch {
		case errors.Is(err, service.ErrThreadBusy):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		case strings.Contains(err.Error(), "not found"):
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}
	return nil
}
