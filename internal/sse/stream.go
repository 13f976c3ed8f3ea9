// Package sse implements the transport channel: a single long-lived, ordered
// server-to-client push stream. It owns connection lifecycle only; protocol
// semantics live with the codec and the run engine.
package sse

import (
	"fmt"
	"net/http"
	"sync"
)

// ErrStreamClosed is returned by Write after the channel is closed or the
// client has gone away.
var ErrStreamClosed = fmt.Errorf("stream closed")

// Sink accepts an ordered sequence of framed events. Each frame must be fully
// written before the next is produced; ordering is part of the protocol's
// correctness contract.
type Sink interface {
	Write(frame []byte) error
}

// Stream pushes frames over an open HTTP response.
type Stream struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

// Open sets the event-stream response headers and returns the stream. The
// status line goes out with the first written frame; the response stays open
// until Close.
func Open(w http.ResponseWriter) *Stream {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	flusher, _ := w.(http.Flusher)
	return &Stream{w: w, flusher: flusher}
}

// Write pushes one frame and flushes it to the client.
func (s *Stream) Write(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	if _, err := s.w.Write(frame); err != nil {
		s.closed = true
		return fmt.Errorf("failed to write frame: %w", err)
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

// Close marks the stream closed. Further writes fail with ErrStreamClosed.
func (s *Stream) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
