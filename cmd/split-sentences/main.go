// Command split-sentences writes an SGML corpus one sentence per line.
//
// Wrapped plain-text lines are joined into paragraphs and segmented with a
// sentence boundary model; markup lines pass through unchanged. When the model
// loses the end of a paragraph, the missing text is written as a final
// sentence and an "SBD ERROR\t<paragraph>" line goes to standard error.
package main

import (
	"bufio"
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	sgmlprep "github.com/jamesainslie/go-sgmlprep"
	"github.com/jamesainslie/go-sgmlprep/internal/config"
	"github.com/jamesainslie/go-sgmlprep/internal/logging"
	"github.com/jamesainslie/go-sgmlprep/internal/models"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split-sentences",
		Short: "Split corpus paragraphs into one sentence per line",
		Long: `Reads a corpus on standard input and writes it to standard output with
one sentence per line. Markup lines are copied through and blank lines are
kept as paragraph separators.

The model is loaded from --model-dir (default: the model directory next to
the executable) before any input is read.

Usage:
  split-sentences < text.txt > sentences.txt 2> sbd-errors.txt`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}
	config.AddCommonFlags(cmd.Flags())
	config.AddModelFlags(cmd.Flags())
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) (err error) {
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
	model, err := models.Open(models.Options{
		Backend:     backend,
		Dir:         cfg.ModelDir,
		Threshold:   cfg.Threshold,
		ONNXLibrary: cfg.ONNXLibrary,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, model.Close()) }()

	in, err := sgmlprep.OpenInput(cmd.InOrStdin(), cfg.Charset)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	sp := sgmlprep.NewSplitter(model, out,
		sgmlprep.WithMarker(cfg.Marker),
		sgmlprep.WithMaxLineBytes(cfg.MaxLineBytes),
		sgmlprep.WithDiagnostics(cmd.ErrOrStderr()),
		sgmlprep.WithLogger(logger),
	)

	_, runErr := sp.Run(cmd.Context(), in)
	return errors.Join(runErr, out.Flush())
}
