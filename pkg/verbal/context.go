package verbal

import (
	"strings"
	"unicode/utf8"

	"github.com/tunegraph/tunegraph/pkg/types"
)

const (
	// DefaultMaxContextLength caps the total rendered context.
	DefaultMaxContextLength = 2000
	// DefaultMaxTriplesPerPath caps how much of one path is verbalized.
	DefaultMaxTriplesPerPath = 5
	// minUsefulRemaining is the smallest budget worth truncating into.
	minUsefulRemaining = 100
	// boundaryFraction is how far back a truncation boundary may sit.
	boundaryFraction = 0.8
)

// ContextBuilder assembles the sentences of ranked paths into a bounded
// context string.
type ContextBuilder struct {
	verbalizer        *Verbalizer
	maxContextLength  int
	maxTriplesPerPath int
}

// ContextOption customizes a ContextBuilder.
type ContextOption func(*ContextBuilder)

// WithMaxContextLength overrides the total context budget in characters.
func WithMaxContextLength(n int) ContextOption {
	return func(b *ContextBuilder) {
		if n > 0 {
			b.maxContextLength = n
		}
	}
}

// WithMaxTriplesPerPath overrides how many triples of each path are rendered.
func WithMaxTriplesPerPath(n int) ContextOption {
	return func(b *ContextBuilder) {
		if n > 0 {
			b.maxTriplesPerPath = n
		}
	}
}

// NewContextBuilder creates a ContextBuilder around the given Verbalizer.
func NewContextBuilder(verbalizer *Verbalizer, opts ...ContextOption) *ContextBuilder {
	builder := &ContextBuilder{
		verbalizer:        verbalizer,
		maxContextLength:  DefaultMaxContextLength,
		maxTriplesPerPath: DefaultMaxTriplesPerPath,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder
}

// Build renders the given paths, best first, into a newline-joined context
// string no longer than the configured budget. Paths that do not fit are
// truncated at a sentence, clause, or word boundary when one is close
// enough, and skipped once the remaining budget is too small to be useful.
func (b *ContextBuilder) Build(paths []types.RankedPath) string {
	if len(paths) == 0 {
		return FallbackContext
	}

	var parts []string
	total := 0
	for _, path := range paths {
		if total >= b.maxContextLength {
			break
		}
		rendered := b.renderPath(path)
		if rendered == "" {
			continue
		}
		size := utf8.RuneCountInString(rendered)
		if total+size > b.maxContextLength {
			remaining := b.maxContextLength - total
			if remaining <= minUsefulRemaining {
				break
			}
			rendered = truncateAtBoundary(rendered, remaining)
			size = utf8.RuneCountInString(rendered)
		}
		parts = append(parts, rendered)
		total += size
	}

	if len(parts) == 0 {
		return FallbackContext
	}
	return strings.Join(parts, "\n")
}

// renderPath verbalizes up to maxTriplesPerPath triples of one path into a
// single sentence: one fact stands alone, two facts join with "and", three or
// more become a comma list with a final "and".
func (b *ContextBuilder) renderPath(path types.RankedPath) string {
	triples := path.Triples
	if len(triples) > b.maxTriplesPerPath {
		triples = triples[:b.maxTriplesPerPath]
	}
	sentences := b.verbalizer.VerbalizeAll(triples)
	switch len(sentences) {
	case 0:
		return ""
	case 1:
		return sentences[0] + "."
	case 2:
		return sentences[0] + " and " + sentences[1] + "."
	default:
		last := len(sentences) - 1
		return strings.Join(sentences[:last], ", ") + ", and " + sentences[last] + "."
	}
}

// truncateAtBoundary cuts text down to at most max runes, preferring the
// last sentence, clause, or word boundary when it sits within the final
// fifth of the window, and marks the cut with an ellipsis. Positions are
// measured in runes throughout so multi-byte names truncate the same way
// ASCII ones do.
func truncateAtBoundary(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	cut := runes[:max]
	boundary := -1
	for i, r := range cut {
		if r == '.' || r == ',' || r == ' ' {
			boundary = i
		}
	}
	if boundary > int(float64(max)*boundaryFraction) {
		cut = cut[:boundary+1]
	}
	return string(cut) + "..."
}
