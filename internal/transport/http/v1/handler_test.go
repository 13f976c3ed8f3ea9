package v1

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/agents"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/config"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/hub"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/protocol"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/service"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/state"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/tools"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{StreamDelay: 0}
	states := state.NewStore(nil)

	registry := tools.NewRegistry()
	registry.MustRegister(tools.NewMeetingTimePicker())
	registry.MustRegister(tools.NewUpdateTodoList(states))
	registry.MustRegister(tools.NewBarChart())
	registry.MustRegister(tools.NewPieChart())
	dispatcher := tools.NewDispatcher(registry, nil)

	svc := service.New(cfg, agents.Default(), dispatcher, states)

	e := echo.New()
	NewHandler(svc, hub.New(states)).RegisterRoutes(e)
	return e
}

func decodeEvents(t *testing.T, body []byte) []*protocol.Event {
	t.Helper()
	dec := protocol.NewDecoder(bytes.NewReader(body))
	var out []*protocol.Event
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, ev)
	}
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestRunAgent(t *testing.T) {
	t.Run("Streams Full Event Sequence", func(t *testing.T) {
		e := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/agents/mastra/run", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
		assert.Equal(t, "keep-alive", rec.Header().Get("Connection"))

		events := decodeEvents(t, rec.Body.Bytes())
		require.NotEmpty(t, events)
		assert.Equal(t, protocol.EventTypeRunStarted, events[0].Type)
		assert.Equal(t, protocol.EventTypeRunFinished, events[len(events)-1].Type)

		obs := protocol.NewRunObserver()
		for _, ev := range events {
			require.NoError(t, obs.Observe(ev))
		}
		assert.True(t, obs.Closed())
	})

	t.Run("Honors Thread From Body", func(t *testing.T) {
		e := newTestServer(t)

		body := strings.NewReader(`{"thread_id":"my-thread","content":"hi"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/agents/mastra/run", body)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		events := decodeEvents(t, rec.Body.Bytes())
		require.NotEmpty(t, events)
		var started protocol.RunStartedPayload
		require.NoError(t, json.Unmarshal(events[0].Data, &started))
		assert.Equal(t, "my-thread", started.ThreadID)
	})

	t.Run("Unknown Agent Returns 404", func(t *testing.T) {
		e := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/agents/nobody/run", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "not found")
	})
}

func TestResolveToolCall(t *testing.T) {
	e := newTestServer(t)

	t.Run("Unknown Call Returns 404", func(t *testing.T) {
		body := strings.NewReader(`{"decline":true}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/tool_calls/call_missing/resolve", body)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Empty Decision Returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/tool_calls/call_x/resolve", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStateEndpoints(t *testing.T) {
	e := newTestServer(t)

	readVersion := func(t *testing.T) domain.StateWriteResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/v1/threads/t1/state", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp domain.StateWriteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	t.Run("Fresh Thread Reads Version Zero", func(t *testing.T) {
		resp := readVersion(t)
		assert.Equal(t, int64(0), resp.Version)
		assert.Empty(t, resp.State.Todos)
	})

	t.Run("Add Then Toggle", func(t *testing.T) {
		body := strings.NewReader(`{"expected_version":0,"op":"add"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/threads/t1/state", body)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp domain.StateWriteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.Version)
		require.Len(t, resp.State.Todos, 1)
		assert.Equal(t, domain.TodoStatusPending, resp.State.Todos[0].Status)

		toggle, _ := json.Marshal(domain.StateWriteRequest{
			ExpectedVersion: 1,
			Op:              "toggle",
			TodoID:          resp.State.Todos[0].ID,
		})
		req = httptest.NewRequest(http.MethodPost, "/v1/threads/t1/state", bytes.NewReader(toggle))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.TodoStatusCompleted, resp.State.Todos[0].Status)
	})

	t.Run("Stale Version Returns 409 With Current State", func(t *testing.T) {
		body := strings.NewReader(`{"expected_version":0,"op":"add"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/threads/t1/state", body)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		var resp domain.StateWriteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(2), resp.Version, "conflict response carries the fresh version")

		// Retrying with the fresh version succeeds.
		retry, _ := json.Marshal(domain.StateWriteRequest{ExpectedVersion: resp.Version, Op: "add"})
		req = httptest.NewRequest(http.MethodPost, "/v1/threads/t1/state", bytes.NewReader(retry))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Unknown Op Returns 400", func(t *testing.T) {
		body := strings.NewReader(`{"expected_version":0,"op":"explode"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/threads/t2/state", body)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWatchState(t *testing.T) {
	e := newTestServer(t)
	srv := httptest.NewServer(e)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/threads/t1/state/watch"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()

	// Give the watcher a moment to attach to the store.
	time.Sleep(50 * time.Millisecond)

	// A write through the HTTP surface reaches the watcher.
	body := strings.NewReader(`{"expected_version":0,"op":"add"}`)
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/threads/t1/state", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)

	var pushed struct {
		Event string                     `json:"event"`
		Data  protocol.StateDeltaPayload `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &pushed))
	assert.Equal(t, "StateDelta", pushed.Event)
	assert.Equal(t, "t1", pushed.Data.ThreadID)
	assert.Equal(t, int64(1), pushed.Data.Version)
	assert.Contains(t, string(pushed.Data.Payload), "New Todo")
}
