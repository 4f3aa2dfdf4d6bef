package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	sgmlprep "github.com/jamesainslie/go-sgmlprep"
)

// Model is a sentence model that must be closed after use.
type Model interface {
	sgmlprep.Model
	io.Closer
}

// OpenFunc opens a model with the given boundary threshold.
type OpenFunc func(threshold float32) (Model, error)

// SweepResult holds metrics for one threshold value.
type SweepResult struct {
	Threshold float32
	Metrics   Metrics
}

// SweepThresholds generates threshold values from min to max with given step.
func SweepThresholds(min, max, step float32) []float32 {
	if step <= 0 {
		return nil
	}
	var thresholds []float32
	for i := 0; ; i++ {
		t := min + float32(i)*step
		if t >= max {
			break
		}
		thresholds = append(thresholds, t)
	}
	return thresholds
}

// Sweep evaluates multiple thresholds and returns results sorted by weighted score.
func Sweep(ctx context.Context, docs []*Document, open OpenFunc, cfg Config, thresholds []float32) ([]SweepResult, error) {
	results := make([]SweepResult, 0, len(thresholds))

	for _, threshold := range thresholds {
		model, err := open(threshold)
		if err != nil {
			return nil, fmt.Errorf("opening model at threshold %.3f: %w", threshold, err)
		}

		cfg.Threshold = threshold
		m, err := EvaluateCorpus(ctx, model, docs, cfg)
		if cerr := model.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing model at threshold %.3f: %w", threshold, cerr))
		}
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			Threshold: threshold,
			Metrics:   m,
		})
	}

	// Sort by weighted score descending
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Metrics.WeightedScore > results[j].Metrics.WeightedScore
	})

	return results, nil
}
