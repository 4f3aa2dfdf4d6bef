package bench

import (
	"context"
	"fmt"
	"strings"

	sgmlprep "github.com/jamesainslie/go-sgmlprep"
)

// Config holds evaluation parameters.
type Config struct {
	Threshold       float32
	Tolerance       int // byte match tolerance
	PrecisionWeight float64
	RecallWeight    float64
}

// DefaultConfig returns default evaluation configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:       0.025,
		Tolerance:       3,
		PrecisionWeight: 1.0,
		RecallWeight:    1.0,
	}
}

// Metrics holds evaluation results.
type Metrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Corrections    int // paragraphs where dropped text had to be recovered
	Precision      float64
	Recall         float64
	F1             float64
	WeightedScore  float64
}

// Add accumulates the counts of o into m and recomputes the scores.
func (m *Metrics) Add(o Metrics, cfg Config) {
	*m = score(m.TruePositives+o.TruePositives, m.FalsePositives+o.FalsePositives,
		m.FalseNegatives+o.FalseNegatives, cfg)
	m.Corrections += o.Corrections
}

// Evaluate compares predicted boundaries against ground truth.
// Uses greedy left-to-right matching within tolerance.
func Evaluate(predicted, truth []int, cfg Config) Metrics {
	matched := make([]bool, len(truth))
	tp := 0

	for _, p := range predicted {
		for i, t := range truth {
			if matched[i] {
				continue
			}
			diff := p - t
			if diff < 0 {
				diff = -diff
			}
			if diff <= cfg.Tolerance {
				matched[i] = true
				tp++
				break
			}
		}
	}

	return score(tp, len(predicted)-tp, len(truth)-tp, cfg)
}

func score(tp, fp, fn int, cfg Config) Metrics {
	m := Metrics{
		TruePositives:  tp,
		FalsePositives: fp,
		FalseNegatives: fn,
	}

	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	wp := cfg.PrecisionWeight
	wr := cfg.RecallWeight
	if wp+wr > 0 {
		m.WeightedScore = (wp*m.Precision + wr*m.Recall) / (wp + wr)
	}

	return m
}

// Boundaries locates each sentence in text, in order, and returns the byte
// offset where each ends. A sentence not found at or after the previous end
// is assumed to follow it directly.
func Boundaries(text string, sentences []string) []int {
	out := make([]int, 0, len(sentences))
	cursor := 0
	for _, s := range sentences {
		end := cursor + len(s)
		if i := strings.Index(text[cursor:], s); i >= 0 {
			end = cursor + i + len(s)
		}
		if end > len(text) {
			end = len(text)
		}
		out = append(out, end)
		cursor = end
	}
	return out
}

// EvaluateParagraph segments p with model, applying the same dropped-text
// recovery as the sentence splitter, and scores the result.
func EvaluateParagraph(ctx context.Context, model sgmlprep.Model, p Paragraph, cfg Config) (Metrics, error) {
	sentences, correction, err := sgmlprep.SegmentParagraph(ctx, model, p.Text)
	if err != nil {
		return Metrics{}, err
	}

	m := Evaluate(Boundaries(p.Text, sentences), p.Boundaries(), cfg)
	if correction != nil {
		m.Corrections = 1
	}
	return m, nil
}

// EvaluateDocument scores every paragraph of doc and aggregates the counts.
func EvaluateDocument(ctx context.Context, model sgmlprep.Model, doc *Document, cfg Config) (Metrics, error) {
	var total Metrics
	for i, p := range doc.Paragraphs {
		m, err := EvaluateParagraph(ctx, model, p, cfg)
		if err != nil {
			return Metrics{}, fmt.Errorf("%s paragraph %d: %w", doc.ID, i+1, err)
		}
		total.Add(m, cfg)
	}
	return total, nil
}

// EvaluateCorpus scores every document and aggregates the counts.
func EvaluateCorpus(ctx context.Context, model sgmlprep.Model, docs []*Document, cfg Config) (Metrics, error) {
	var total Metrics
	for _, doc := range docs {
		m, err := EvaluateDocument(ctx, model, doc, cfg)
		if err != nil {
			return Metrics{}, err
		}
		total.Add(m, cfg)
	}
	return total, nil
}
