// Package v1 provides the HTTP handlers for the streaming protocol surface.
package v1

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/hub"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service  *service.Service
	hub      *hub.Hub
	upgrader websocket.Upgrader
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, h *hub.Hub) *Handler {
	return &Handler{
		service: svc,
		hub:     h,
		upgrader: websocket.Upgrader{
			// CORS is handled by middleware; the watch socket is open.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Run streaming
	e.POST("/v1/agents/:agent_id/run", h.RunAgent)

	// Tool call API
	e.POST("/v1/tool_calls/:call_id/resolve", h.ResolveToolCall)
	e.GET("/v1/tool_calls/:call_id", h.GetToolCall)

	// Shared state API
	e.GET("/v1/threads/:thread_id/state", h.GetState)
	e.POST("/v1/threads/:thread_id/state", h.WriteState)
	e.GET("/v1/threads/:thread_id/state/watch", h.WatchState)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
