// Package rules splits text at sentence-ending punctuation.
//
// It needs no model files and is used for offline runs and for building
// reference segmentations.
package rules

import (
	"context"
	"regexp"
	"strings"
)

// DefaultAbbreviations are the abbreviations that do not end a sentence.
var DefaultAbbreviations = []string{
	"Mr", "Mrs", "Ms", "Dr", "Prof", "Sr", "Jr", "St", "vs", "etc",
	"i.e", "e.g", "U.S", "U.K", "Inc", "Corp", "Co", "Ltd", "Gen", "Gov", "Sen", "Rep",
}

// Span is a sentence with byte offsets into the segmented text.
type Span struct {
	Text  string
	Start int
	End   int
}

// Option configures a Model.
type Option func(*Model)

// WithAbbreviations replaces the abbreviation list.
func WithAbbreviations(abbrevs ...string) Option {
	return func(m *Model) {
		m.abbreviations = compileAbbreviations(abbrevs)
	}
}

// Model is a punctuation splitter that skips common abbreviations.
type Model struct {
	abbreviations *regexp.Regexp
}

// New creates a Model.
func New(opts ...Option) *Model {
	m := &Model{abbreviations: compileAbbreviations(DefaultAbbreviations)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func compileAbbreviations(abbrevs []string) *regexp.Regexp {
	if len(abbrevs) == 0 {
		return nil
	}
	quoted := make([]string, len(abbrevs))
	for i, a := range abbrevs {
		quoted[i] = regexp.QuoteMeta(a)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\.$`)
}

// Segment splits text into sentences.
func (m *Model) Segment(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spans := m.Split(text)
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.Text
	}
	return out, nil
}

// Close is a no-op.
func (m *Model) Close() error {
	return nil
}

// Split splits text at '.', '?' or '!' followed by whitespace or the end of
// the text. A period ending a known abbreviation does not split.
func (m *Model) Split(text string) []Span {
	if text == "" {
		return nil
	}

	var spans []Span
	start := 0

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != '.' && ch != '?' && ch != '!' {
			continue
		}
		if i+1 < len(text) && !isBlank(text[i+1]) {
			continue
		}

		if ch == '.' && m.abbreviations != nil && m.abbreviations.MatchString(text[start:i+1]) {
			continue
		}

		end := i + 1
		if s := strings.TrimSpace(text[start:end]); s != "" {
			spans = append(spans, Span{Text: s, Start: start, End: end})
		}

		for i+1 < len(text) && isBlank(text[i+1]) {
			i++
		}
		start = i + 1
	}

	if start < len(text) {
		if remaining := strings.TrimSpace(text[start:]); remaining != "" {
			spans = append(spans, Span{Text: remaining, Start: start, End: len(text)})
		}
	}

	return spans
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
