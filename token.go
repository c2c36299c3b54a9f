package ragdex

import "strings"

// TokenCount approximates the number of tokens in text. It splits on
// whitespace and treats a trailing question mark as its own token, while
// other trailing punctuation (.,;:!) stays attached to its word.
//
// Chunk boundaries depend on this approximation, so it must stay stable:
// changing it re-chunks every document on the next ingestion run.
func TokenCount(text string) int {
	n := 0
	for _, part := range strings.Fields(text) {
		if len(part) > 1 && part[len(part)-1] == '?' {
			n += 2
			continue
		}
		n++
	}
	return n
}
