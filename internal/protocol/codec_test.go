package protocol

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Run("Frames Event With Blank Line Terminator", func(t *testing.T) {
		frame, err := Encode(EventTypeTextMessageContent, TextMessageContentPayload{
			MessageID: "msg_1",
			Delta:     "hello ",
		})
		require.NoError(t, err)

		s := string(frame)
		assert.True(t, strings.HasPrefix(s, "event: TextMessageContent\n"))
		assert.True(t, strings.HasSuffix(s, "\n\n"))
		assert.Contains(t, s, `data: {"messageId":"msg_1","delta":"hello "}`)
	})

	t.Run("Rejects Unknown Type", func(t *testing.T) {
		_, err := Encode(EventType("Bogus"), map[string]string{})
		assert.ErrorIs(t, err, ErrUnknownEventType)
	})
}

func TestDecoder(t *testing.T) {
	t.Run("Round Trips Frames", func(t *testing.T) {
		var buf bytes.Buffer
		for _, ev := range []struct {
			t EventType
			p any
		}{
			{EventTypeRunStarted, RunStartedPayload{RunID: "run_1", ThreadID: "default-thread", Timestamp: 42}},
			{EventTypeTextMessageContent, TextMessageContentPayload{MessageID: "msg_1", Delta: "a "}},
			{EventTypeRunFinished, RunFinishedPayload{RunID: "run_1", ThreadID: "default-thread", Timestamp: 43}},
		} {
			frame, err := Encode(ev.t, ev.p)
			require.NoError(t, err)
			buf.Write(frame)
		}

		dec := NewDecoder(&buf)

		ev, err := dec.Next()
		require.NoError(t, err)
		assert.Equal(t, EventTypeRunStarted, ev.Type)
		var started RunStartedPayload
		require.NoError(t, json.Unmarshal(ev.Data, &started))
		assert.Equal(t, "run_1", started.RunID)
		assert.Equal(t, int64(42), started.Timestamp)

		ev, err = dec.Next()
		require.NoError(t, err)
		assert.Equal(t, EventTypeTextMessageContent, ev.Type)

		ev, err = dec.Next()
		require.NoError(t, err)
		assert.Equal(t, EventTypeRunFinished, ev.Type)

		_, err = dec.Next()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("Rejects Unknown Event Type", func(t *testing.T) {
		dec := NewDecoder(strings.NewReader("event: MysteryEvent\ndata: {}\n\n"))
		_, err := dec.Next()
		assert.ErrorIs(t, err, ErrUnknownEventType)
	})

	t.Run("Rejects Invalid JSON Payload", func(t *testing.T) {
		dec := NewDecoder(strings.NewReader("event: RunStarted\ndata: {not json\n\n"))
		_, err := dec.Next()
		assert.Error(t, err)
	})

	t.Run("Ignores Comments", func(t *testing.T) {
		dec := NewDecoder(strings.NewReader(": keepalive\n\nevent: TextMessageEnd\ndata: {\"messageId\":\"m\"}\n\n"))
		ev, err := dec.Next()
		require.NoError(t, err)
		assert.Equal(t, EventTypeTextMessageEnd, ev.Type)
	})
}
