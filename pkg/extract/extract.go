// Package extract proposes candidate entity-name strings from free text.
//
// This is a heuristic filter, not NER: downstream stages tolerate false
// positives, and an empty result is a valid outcome rather than an error.
package extract

import (
	"regexp"
	"strings"
)

var (
	quotedPattern  = regexp.MustCompile(`"([^"]+)"`)
	unigramPattern = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
	bigramPattern  = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
)

// stopWords are interrogative and function words that start questions with a
// capital letter but never name an entity.
var stopWords = map[string]struct{}{
	"did": {}, "who": {}, "what": {}, "when": {}, "where": {},
	"how": {}, "why": {}, "the": {}, "and": {}, "with": {},
	"does": {}, "is": {}, "are": {}, "was": {}, "were": {},
}

// Extractor extracts candidate entity names from query text.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor { return &Extractor{} }

// Extract returns candidate entity names. Quoted substrings take precedence
// and are returned verbatim; otherwise capitalized unigrams (minus stop
// words) and capitalized bigrams are collected, deduplicated in first-seen
// order.
func (e *Extractor) Extract(text string) []string {
	if quoted := quotedPattern.FindAllStringSubmatch(text, -1); len(quoted) > 0 {
		names := make([]string, 0, len(quoted))
		for _, m := range quoted {
			names = append(names, m[1])
		}
		return dedupe(names)
	}

	var candidates []string
	for _, word := range unigramPattern.FindAllString(text, -1) {
		if _, stop := stopWords[strings.ToLower(word)]; stop {
			continue
		}
		candidates = append(candidates, word)
	}
	candidates = append(candidates, bigramPattern.FindAllString(text, -1)...)
	return dedupe(candidates)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
