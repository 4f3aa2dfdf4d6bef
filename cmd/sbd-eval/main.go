// Command sbd-eval scores a sentence boundary model against gold
// segmentations: files with one sentence per line and blank lines between
// paragraphs, as written by split-sentences.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-sgmlprep/internal/bench"
	"github.com/jamesainslie/go-sgmlprep/internal/config"
	"github.com/jamesainslie/go-sgmlprep/internal/logging"
	"github.com/jamesainslie/go-sgmlprep/internal/models"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sbd-eval GOLD...",
		Short: "Evaluate sentence boundary detection against gold files",
		Long: `Loads gold segmentations from the given files and directories, segments
each gold paragraph with the configured model and reports boundary precision,
recall and F1. With --sweep, a range of SaT thresholds is evaluated and the
best one reported.

Usage:
  sbd-eval --backend sat --sweep testdata/gold/`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}
	fs := cmd.Flags()
	config.AddCommonFlags(fs)
	config.AddModelFlags(fs)
	fs.Int("tolerance", 3, "byte tolerance for boundary matching")
	fs.Float64("wp", 1.0, "precision weight")
	fs.Float64("wr", 1.0, "recall weight")
	fs.Bool("sweep", false, "run a threshold sweep (sat backend)")
	fs.Float32("sweep-min", 0.01, "sweep minimum threshold")
	fs.Float32("sweep-max", 0.20, "sweep maximum threshold")
	fs.Float32("sweep-step", 0.01, "sweep step size")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	backend, err := models.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}

	docs, err := loadGold(args, cfg.Marker)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Loaded %d documents\n\n", len(docs))

	fs := cmd.Flags()
	tolerance, _ := fs.GetInt("tolerance")
	wp, _ := fs.GetFloat64("wp")
	wr, _ := fs.GetFloat64("wr")
	evalCfg := bench.Config{
		Threshold:       cfg.Threshold,
		Tolerance:       tolerance,
		PrecisionWeight: wp,
		RecallWeight:    wr,
	}

	open := func(threshold float32) (bench.Model, error) {
		return models.Open(models.Options{
			Backend:     backend,
			Dir:         cfg.ModelDir,
			Threshold:   threshold,
			ONNXLibrary: cfg.ONNXLibrary,
			Logger:      logger,
		})
	}

	if sweep, _ := fs.GetBool("sweep"); sweep {
		if backend != models.BackendSaT {
			return fmt.Errorf("--sweep needs the sat backend, got %s", backend)
		}
		min, _ := fs.GetFloat32("sweep-min")
		max, _ := fs.GetFloat32("sweep-max")
		step, _ := fs.GetFloat32("sweep-step")
		return runSweep(cmd.Context(), w, docs, open, evalCfg, bench.SweepThresholds(min, max, step))
	}
	return runSingle(cmd.Context(), w, docs, open, evalCfg)
}

// loadGold loads each path, reading directories as corpora.
func loadGold(paths []string, marker string) ([]*bench.Document, error) {
	var docs []*bench.Document
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("loading gold: %w", err)
		}
		if info.IsDir() {
			corpus, err := bench.LoadCorpus(path, marker)
			if err != nil {
				return nil, err
			}
			docs = append(docs, corpus...)
			continue
		}
		doc, err := bench.LoadGold(path, marker)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func runSingle(ctx context.Context, w io.Writer, docs []*bench.Document, open bench.OpenFunc, cfg bench.Config) error {
	model, err := open(cfg.Threshold)
	if err != nil {
		return err
	}
	defer func() { _ = model.Close() }()

	m, err := bench.EvaluateCorpus(ctx, model, docs, cfg)
	if err != nil {
		return err
	}

	printMetrics(w, m, cfg)
	return nil
}

func runSweep(ctx context.Context, w io.Writer, docs []*bench.Document, open bench.OpenFunc, cfg bench.Config, thresholds []float32) error {
	results, err := bench.Sweep(ctx, docs, open, cfg, thresholds)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	fmt.Fprintf(w, "Threshold Sweep Results (wp=%.1f, wr=%.1f)\n", cfg.PrecisionWeight, cfg.RecallWeight)
	fmt.Fprintln(w, strings.Repeat("-", 58))
	fmt.Fprintf(w, "%-8s %-8s %-8s %-8s %-8s %-8s\n", "Thresh", "Prec", "Rec", "F1", "Weighted", "Fixes")

	// Print sorted by threshold for readability
	for _, t := range thresholds {
		for _, r := range results {
			if r.Threshold == t {
				fmt.Fprintf(w, "%-8.3f %-8.2f %-8.2f %-8.2f %-8.2f %-8d\n",
					r.Threshold, r.Metrics.Precision, r.Metrics.Recall, r.Metrics.F1,
					r.Metrics.WeightedScore, r.Metrics.Corrections)
				break
			}
		}
	}

	fmt.Fprintln(w, strings.Repeat("-", 58))
	if len(results) > 0 {
		best := results[0]
		fmt.Fprintf(w, "Optimal: %.3f (Weighted: %.2f)\n", best.Threshold, best.Metrics.WeightedScore)
	}
	return nil
}

func printMetrics(w io.Writer, m bench.Metrics, cfg bench.Config) {
	fmt.Fprintf(w, "Threshold:   %.3f\n", cfg.Threshold)
	fmt.Fprintf(w, "Tolerance:   %d\n", cfg.Tolerance)
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "TP: %d  FP: %d  FN: %d\n", m.TruePositives, m.FalsePositives, m.FalseNegatives)
	fmt.Fprintf(w, "Precision:   %.4f\n", m.Precision)
	fmt.Fprintf(w, "Recall:      %.4f\n", m.Recall)
	fmt.Fprintf(w, "F1:          %.4f\n", m.F1)
	fmt.Fprintf(w, "Weighted:    %.4f\n", m.WeightedScore)
	fmt.Fprintf(w, "Corrections: %d\n", m.Corrections)
}
