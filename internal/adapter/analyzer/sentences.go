package analyzer

import (
	"regexp"
	"strings"
)

// SentenceSegmenter splits prose into sentences using punctuation-based
// boundary detection with a small abbreviation list. It is deterministic:
// the same input always produces the same sentence sequence.
type SentenceSegmenter struct {
	boundary      *regexp.Regexp
	abbreviations map[string]struct{}
}

func NewSentenceSegmenter() *SentenceSegmenter {
	return &SentenceSegmenter{
		// A terminal mark followed by whitespace and an upper-case letter,
		// digit, or opening quote marks a candidate boundary.
		boundary:      regexp.MustCompile(`([.!?]+)(\s+)([A-Z0-9"'])`),
		abbreviations: defaultAbbreviations(),
	}
}

// Segment splits text into trimmed sentences, in original order.
// Returns nil for text with no sentence content.
func (s *SentenceSegmenter) Segment(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	// Mark candidate boundaries, then undo those that follow abbreviations.
	const marker = "\x00"
	marked := s.boundary.ReplaceAllString(text, "$1"+marker+"$3")

	parts := strings.Split(marked, marker)
	sentences := make([]string, 0, len(parts))
	var carry string

	for _, part := range parts {
		candidate := carry + part
		carry = ""

		trimmed := strings.TrimSpace(candidate)
		if trimmed == "" {
			continue
		}

		if s.endsWithAbbreviation(trimmed) {
			carry = candidate + " "
			continue
		}

		sentences = append(sentences, trimmed)
	}

	if rest := strings.TrimSpace(carry); rest != "" {
		sentences = append(sentences, rest)
	}

	if len(sentences) == 0 {
		return nil
	}
	return sentences
}

func (s *SentenceSegmenter) endsWithAbbreviation(sentence string) bool {
	fields := strings.Fields(sentence)
	if len(fields) == 0 {
		return false
	}
	last := strings.ToLower(fields[len(fields)-1])
	_, ok := s.abbreviations[last]
	return ok
}

func defaultAbbreviations() map[string]struct{} {
	words := []string{
		"mr.", "mrs.", "ms.", "dr.", "prof.", "sr.", "jr.", "st.",
		"vs.", "etc.", "e.g.", "i.e.", "cf.", "al.", "inc.", "ltd.",
		"co.", "corp.", "no.", "vol.", "fig.", "approx.",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
