// Package hub fans shared-state notifications out to watching WebSocket
// clients, one subscription per thread.
package hub

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/protocol"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/state"
)

// envelope is the wire form of one pushed notification.
type envelope struct {
	Event string                     `json:"event"`
	Data  protocol.StateDeltaPayload `json:"data"`
}

type connection struct {
	ws   *websocket.Conn
	send chan []byte
}

type fanout struct {
	conns  map[*connection]bool
	cancel func()
}

// Hub manages thread watchers. It holds one store subscription per watched
// thread and drops it when the last watcher disconnects.
type Hub struct {
	states *state.Store

	mu      sync.Mutex
	threads map[string]*fanout
}

// New creates a hub over the shared state store.
func New(states *state.Store) *Hub {
	return &Hub{
		states:  states,
		threads: make(map[string]*fanout),
	}
}

// Serve attaches one WebSocket connection as a watcher of threadID and
// blocks until the client disconnects.
func (h *Hub) Serve(threadID string, ws *websocket.Conn) {
	conn := &connection{ws: ws, send: make(chan []byte, 16)}
	h.register(threadID, conn)
	defer h.unregister(threadID, conn)

	go func() {
		for msg := range conn.send {
			if err := ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// Read loop only to observe the close; watchers never send.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(threadID string, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	f := h.threads[threadID]
	if f == nil {
		notes, cancel := h.states.Subscribe(threadID)
		f = &fanout{conns: make(map[*connection]bool), cancel: cancel}
		h.threads[threadID] = f
		go h.forward(threadID, notes)
	}
	f.conns[conn] = true
}

func (h *Hub) unregister(threadID string, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	f := h.threads[threadID]
	if f == nil {
		return
	}
	if f.conns[conn] {
		delete(f.conns, conn)
		close(conn.send)
	}
	if len(f.conns) == 0 {
		f.cancel()
		delete(h.threads, threadID)
	}
}

func (h *Hub) forward(threadID string, notes <-chan state.Notification) {
	for note := range notes {
		payload, err := json.Marshal(note.State.Todos)
		if err != nil {
			log.Printf("ERROR: failed to encode state for thread %s: %v", threadID, err)
			continue
		}
		msg, err := json.Marshal(envelope{
			Event: string(protocol.EventTypeStateDelta),
			Data: protocol.StateDeltaPayload{
				ThreadID: note.ThreadID,
				Version:  note.State.Version,
				Payload:  payload,
			},
		})
		if err != nil {
			log.Printf("ERROR: failed to encode state delta: %v", err)
			continue
		}

		h.mu.Lock()
		f := h.threads[threadID]
		if f != nil {
			for conn := range f.conns {
				select {
				case conn.send <- msg:
				default:
					// Slow client; it will see the next version.
				}
			}
		}
		h.mu.Unlock()
	}
}
