// Package transcript accumulates streamed recognition segments and shapes
// the final dictation text.
package transcript

import "strings"

// Builder collects segments as a streaming recognizer emits them. Interim
// text revises in place; committed text is append-only. Recognizers often
// re-send a grown version of the previous segment, so commits that extend or
// repeat the last committed segment merge instead of duplicating words.
type Builder struct {
	committed []string
	interim   string
}

// Interim replaces the revisable tail segment and returns the preview text.
func (b *Builder) Interim(text string) string {
	b.interim = Clean(text)
	return b.Preview()
}

// Commit finalizes a segment and clears the interim tail.
func (b *Builder) Commit(text string) {
	b.committed = mergeSegment(b.committed, text)
	b.interim = ""
}

// Preview returns committed segments plus the current interim tail.
func (b *Builder) Preview() string {
	segments := b.committed
	if b.interim != "" {
		segments = mergeSegment(append([]string(nil), b.committed...), b.interim)
	}
	return strings.Join(segments, " ")
}

// Final returns the committed transcript, folding in a leftover interim
// segment that never got its closing commit.
func (b *Builder) Final() string {
	segments := append([]string(nil), b.committed...)
	if b.interim != "" {
		segments = mergeSegment(segments, b.interim)
	}
	return strings.Join(segments, " ")
}

// Reset clears the builder for the next session.
func (b *Builder) Reset() {
	b.committed = nil
	b.interim = ""
}

func mergeSegment(segments []string, text string) []string {
	text = Clean(text)
	if text == "" {
		return segments
	}
	if len(segments) == 0 {
		return append(segments, text)
	}

	last := segments[len(segments)-1]
	switch {
	case text == last:
		return segments
	case strings.HasPrefix(text, last):
		segments[len(segments)-1] = text
		return segments
	case strings.HasPrefix(last, text):
		return segments
	default:
		return append(segments, text)
	}
}

// Clean collapses all interior whitespace and trims the ends.
func Clean(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}
