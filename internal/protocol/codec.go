package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ErrUnknownEventType marks a frame whose event name is outside the protocol
// vocabulary. Decoders must surface it rather than drop the frame.
var ErrUnknownEventType = fmt.Errorf("unknown event type")

// Encode frames one event as an SSE record: a named event line, a single-line
// JSON data line, and a blank-line terminator.
func Encode(t EventType, payload any) ([]byte, error) {
	if !Known(t) {
		return nil, fmt.Errorf("encode: %w: %s", ErrUnknownEventType, t)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", t, err)
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "event: %s\n", t)
	fmt.Fprintf(&buf, "data: %s\n\n", data)
	return buf.Bytes(), nil
}

// Decoder reads framed events from a stream. Frames are delimited by the
// blank line, never by length.
type Decoder struct {
	scanner *bufio.Scanner
}

// NewDecoder returns a decoder over r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{scanner: bufio.NewScanner(r)}
}

// Next returns the next event, io.EOF at end of stream, or an error for a
// malformed or unknown frame.
func (d *Decoder) Next() (*Event, error) {
	var name, data string
	seen := false

	for d.scanner.Scan() {
		line := d.scanner.Text()

		// Blank line marks end of one frame.
		if line == "" {
			if seen {
				return makeEvent(name, data)
			}
			continue
		}
		if strings.HasPrefix(line, "event:") {
			seen = true
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		} else if strings.HasPrefix(line, "data:") {
			seen = true
			chunk := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data != "" {
				data += "\n" + chunk
			} else {
				data = chunk
			}
		}
		// Comments (":") and unknown fields are ignored per SSE.
	}
	if err := d.scanner.Err(); err != nil {
		return nil, err
	}
	if seen {
		return makeEvent(name, data)
	}
	return nil, io.EOF
}

func makeEvent(name, data string) (*Event, error) {
	t := EventType(name)
	if !Known(t) {
		return nil, fmt.Errorf("decode: %w: %q", ErrUnknownEventType, name)
	}
	if data != "" && !json.Valid([]byte(data)) {
		return nil, fmt.Errorf("decode: invalid JSON payload for %s", t)
	}
	return &Event{Type: t, Data: json.RawMessage(data)}, nil
}
