// Package http provides the HTTP server for the streaming orchestrator.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/hub"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/service"
	v1 "github.com/ishann-vaidya/AG-UI-research-spike/internal/transport/http/v1"
)

// NewServer creates and configures the public HTTP server: run streaming,
// tool call resolution, and shared-state access.
func NewServer(svc *service.Service, h *hub.Hub) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc, h)
	v1Handler.RegisterRoutes(e)

	return e
}
