// Package chunker splits plain text into sentence-aligned chunks that fit a
// character budget.
//
// Sentences end after '.', '!' or '?' when followed by whitespace (or at the
// end of the text). Sentences are packed greedily in document order; a
// sentence that alone exceeds the budget is emitted as its own chunk, never
// truncated or split mid-sentence.
package chunker

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars is the default character budget per chunk.
const DefaultMaxChars = 3500

// ErrInvalidBudget is returned (wrapped in a ConfigError) when the character
// budget is not positive.
var ErrInvalidBudget = errors.New("chunk budget must be positive")

// ConfigError reports an invalid chunking or dispatch setting. It is detected
// before any work starts.
type ConfigError struct {
	Field string
	Value int
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %d: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Chunk is a contiguous run of sentences queued for translation as one unit.
type Chunk struct {
	// Index is the chunk's position in the emitted sequence (0-based).
	Index int
	// Text is the sentences joined by single spaces, trimmed.
	Text string
	// CharLength is the number of characters (runes) in Text.
	CharLength int
}

// boundary matches sentence-ending punctuation followed by whitespace.
// Only the punctuation belongs to the sentence; the whitespace run is dropped.
// Whitespace is the Unicode set (NBSP, ideographic space, line and paragraph
// separators, \v and the \x1c-\x1f separators), not just ASCII \s.
var boundary = regexp.MustCompile(`[.!?][\s\v\x{1c}-\x{1f}\x{85}\p{Z}]+`)

// Sentences splits text into sentence units in document order.
// Fragments that contain only whitespace are skipped.
func Sentences(text string) []string {
	var out []string
	start := 0
	for _, loc := range boundary.FindAllStringIndex(text, -1) {
		// loc[0] is the punctuation byte; keep it with the sentence.
		end := loc[0] + 1
		if s := text[start:end]; strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
		start = loc[1]
	}
	if start < len(text) {
		if s := text[start:]; strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// Split packs the sentences of text into chunks of at most maxChars
// characters. A chunk may exceed maxChars only when it holds a single
// sentence that is longer than the budget on its own.
func Split(text string, maxChars int) ([]Chunk, error) {
	if maxChars <= 0 {
		return nil, &ConfigError{Field: "max chars per chunk", Value: maxChars, Err: ErrInvalidBudget}
	}

	var (
		chunks  []Chunk
		buf     []string
		running int
	)

	flush := func() {
		joined := strings.TrimSpace(strings.Join(buf, " "))
		chunks = append(chunks, Chunk{
			Index:      len(chunks),
			Text:       joined,
			CharLength: utf8.RuneCountInString(joined),
		})
	}

	for _, s := range Sentences(text) {
		// Each sentence contributes its length plus one separator.
		size := utf8.RuneCountInString(s) + 1
		if len(buf) > 0 && running+size > maxChars {
			flush()
			buf = []string{s}
			running = size
			continue
		}
		buf = append(buf, s)
		running += size
	}
	if len(buf) > 0 {
		flush()
	}

	return chunks, nil
}

// ---------------------------------------------------------------------------
// Statistics (dry-run reporting)
// ---------------------------------------------------------------------------

// Summary describes a chunk sequence without its content.
type Summary struct {
	Chunks     int
	TotalChars int
	Largest    int
	// Oversize counts single-sentence chunks longer than the budget.
	Oversize int
}

// Stats summarizes chunks produced with the given budget.
func Stats(chunks []Chunk, maxChars int) Summary {
	var s Summary
	s.Chunks = len(chunks)
	for _, c := range chunks {
		s.TotalChars += c.CharLength
		if c.CharLength > s.Largest {
			s.Largest = c.CharLength
		}
		if maxChars > 0 && c.CharLength > maxChars {
			s.Oversize++
		}
	}
	return s
}
