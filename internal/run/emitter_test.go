package run

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitDeltas(t *testing.T) {
	t.Run("Tokens Keep Trailing Separator", func(t *testing.T) {
		deltas := SplitDeltas("Mastra adapter active")
		assert.Equal(t, []string{"Mastra ", "adapter ", "active "}, deltas)
		assert.Equal(t, "Mastra adapter active ", strings.Join(deltas, ""))
	})

	t.Run("Reassembly Law", func(t *testing.T) {
		for _, text := range []string{
			"one",
			"two words",
			"double  space",
			"trailing space ",
			" leading",
			"",
		} {
			deltas := SplitDeltas(text)
			assert.Equal(t, text+" ", strings.Join(deltas, ""), "input %q", text)
		}
	})

	t.Run("Empty Text Yields Single Separator Delta", func(t *testing.T) {
		assert.Equal(t, []string{" "}, SplitDeltas(""))
	})

	t.Run("Multi Space Survives As Empty Tokens", func(t *testing.T) {
		assert.Equal(t, []string{"a ", " ", "b "}, SplitDeltas("a  b"))
	})
}
