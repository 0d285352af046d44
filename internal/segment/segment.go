// ABOUTME: Segmenter splits rule context text into comparison units
// ABOUTME: One segment per non-blank line, with a minimum length gate for embedding
package segment

import "strings"

// DefaultMinLength is the minimum segment length considered worth embedding.
// Shorter lines stay part of the rule's display text but are skipped for
// comparison.
const DefaultMinLength = 10

// Segmenter splits free-text rule context into trimmed non-blank lines.
type Segmenter struct {
	minLength int
}

// New creates a Segmenter with the given minimum embeddable length.
// A minLength <= 0 disables the gate.
func New(minLength int) *Segmenter {
	return &Segmenter{minLength: minLength}
}

// Split returns every non-blank trimmed line of context, in order.
// Empty input yields nil.
func (s *Segmenter) Split(context string) []string {
	var segments []string
	for _, line := range strings.Split(context, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		segments = append(segments, line)
	}
	return segments
}

// Embeddable returns the segments of context that pass the minimum length
// gate, i.e. the units that participate in embedding and comparison.
func (s *Segmenter) Embeddable(context string) []string {
	var segments []string
	for _, seg := range s.Split(context) {
		if s.minLength > 0 && len([]rune(seg)) < s.minLength {
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}
