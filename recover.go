package sgmlprep

import (
	"context"
	"strings"
)

// Correction describes a paragraph whose segmentation did not cover the text.
type Correction struct {
	Text    string // paragraph handed to the model
	Matched int    // byte length covered by the model's sentences
	Suffix  string // appended sentence, empty when nothing could be recovered
}

// SegmentParagraph segments text with model the way Splitter does: sentences
// are trimmed, empty ones dropped, and a dropped suffix is recovered. The
// Correction is non-nil when the sentences did not cover text exactly.
func SegmentParagraph(ctx context.Context, model Model, text string) ([]string, *Correction, error) {
	if model == nil {
		return nil, nil, ErrNilModel
	}
	raw, err := model.Segment(ctx, text)
	if err != nil {
		return nil, nil, err
	}
	sentences, c := recoverDropped(text, cleanSentences(raw))
	return sentences, c, nil
}

// recoverDropped compares the space-joined sentences with text and, when the
// model came up short, appends the uncovered suffix as a final sentence.
//
// The check is by length only: the model output is assumed to be a prefix of
// text. Reordered or rewritten output is reported but not repaired.
func recoverDropped(text string, sentences []string) ([]string, *Correction) {
	matched := len(strings.Join(sentences, " "))
	if matched == len(text) {
		return sentences, nil
	}

	c := &Correction{Text: text, Matched: matched}
	if matched < len(text) {
		suffix := text[matched:]
		if matched > 0 {
			suffix = strings.TrimPrefix(suffix, " ")
		}
		if suffix != "" {
			c.Suffix = suffix
			sentences = append(sentences, suffix)
		}
	}
	return sentences, c
}

// cleanSentences trims each sentence and drops empty ones.
func cleanSentences(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
