package run

import "strings"

// SplitDeltas splits agent text into the ordered token deltas streamed as
// TextMessageContent events. Each delta is one token plus a single trailing
// separator, so concatenating every delta in order reassembles the text
// (with its final separator retained). The empty string yields one bare
// separator delta; runs of separators survive as empty tokens.
func SplitDeltas(text string) []string {
	tokens := strings.Split(text, " ")
	deltas := make([]string, len(tokens))
	for i, tok := range tokens {
		deltas[i] = tok + " "
	}
	return deltas
}
