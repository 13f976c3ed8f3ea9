package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/ident"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/state"
)

// GetState returns a thread's current shared state.
func (h *Handler) GetState(c echo.Context) error {
	threadID := c.Param("thread_id")
	st := h.service.ReadState(c.Request().Context(), threadID)
	return c.JSON(http.StatusOK, domain.StateWriteResponse{
		ThreadID: ident.ResolveThreadID(threadID),
		Version:  st.Version,
		State:    st,
	})
}

// WriteState applies one interface edit through the versioned write path.
// A stale expected version answers 409 with the current state so the caller
// can re-read and retry.
func (h *Handler) WriteState(c echo.Context) error {
	threadID := c.Param("thread_id")

	var req domain.StateWriteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	st, err := h.service.WriteState(c.Request().Context(), threadID, req)
	if err != nil {
		if errors.Is(err, state.ErrConflict) {
			cur := h.service.ReadState(c.Request().Context(), threadID)
			return c.JSON(http.StatusConflict, domain.StateWriteResponse{
				ThreadID: ident.ResolveThreadID(threadID),
				Version:  cur.Version,
				State:    cur,
			})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, domain.StateWriteResponse{
		ThreadID: ident.ResolveThreadID(threadID),
		Version:  st.Version,
		State:    st,
	})
}

// WatchState upgrades to a WebSocket and pushes a StateDelta for every
// successful write to the thread's shared state.
func (h *Handler) WatchState(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	h.hub.Serve(ident.ResolveThreadID(c.Param("thread_id")), ws)
	return nil
}
