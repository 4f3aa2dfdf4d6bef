// Command separate-lines moves markup and overlong lines out of an SGML
// corpus stream.
//
// Plain lines are copied to standard output; markup lines (starting with the
// marker, "<" by default) and lines of more than --max-tokens tokens are
// written to the side file instead. Each input line produces exactly one line
// on both outputs, blank on the one it was not routed to, so the two files
// stay aligned with the input line for line.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	sgmlprep "github.com/jamesainslie/go-sgmlprep"
	"github.com/jamesainslie/go-sgmlprep/internal/config"
	"github.com/jamesainslie/go-sgmlprep/internal/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "separate-lines SIDE_FILE",
		Short: "Route markup and overlong lines to a side file",
		Long: `Reads a corpus on standard input. Lines starting with the markup marker,
and lines with more than --max-tokens whitespace-separated tokens, are written
to SIDE_FILE with a blank line on standard output. All other lines go to
standard output with a blank line in SIDE_FILE.

Usage:
  separate-lines markup.txt < corpus.sgml > text.txt`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}
	config.AddCommonFlags(cmd.Flags())
	cmd.Flags().Int(config.KeyMaxTokens, sgmlprep.DefaultMaxTokens, "lines with more tokens than this go to the side file")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) (err error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	// Created before standard input is read.
	sideFile, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("creating side file: %w", err)
	}
	defer func() {
		if cerr := sideFile.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing side file: %w", cerr))
		}
	}()

	in, err := sgmlprep.OpenInput(cmd.InOrStdin(), cfg.Charset)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	side := bufio.NewWriter(sideFile)

	sep := sgmlprep.NewSeparator(out, side,
		sgmlprep.WithMarker(cfg.Marker),
		sgmlprep.WithMaxTokens(cfg.MaxTokens),
		sgmlprep.WithMaxLineBytes(cfg.MaxLineBytes),
		sgmlprep.WithLogger(logger),
	)

	_, runErr := sep.Run(cmd.Context(), in)
	return errors.Join(runErr, out.Flush(), side.Flush())
}
