package sgmlprep

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"
)

// SeparatorStats counts the lines a Separator routed.
type SeparatorStats struct {
	Lines    int
	Markup   int
	Overlong int
	Plain    int
}

// Separator routes markup and overlong lines to a side writer and plain lines
// to the main writer. Every input line produces exactly one line on each
// writer, so both stay aligned with the input.
type Separator struct {
	out    io.Writer
	side   io.Writer
	cfg    config
	stats  SeparatorStats
	logger *slog.Logger
}

// NewSeparator creates a Separator writing plain text to out and markup to side.
func NewSeparator(out, side io.Writer, opts ...Option) *Separator {
	cfg := newConfig(opts)
	return &Separator{
		out:    out,
		side:   side,
		cfg:    cfg,
		logger: cfg.logger,
	}
}

// Line routes a single input line. The line must not include its terminator.
func (s *Separator) Line(line string) error {
	kind := Classify(line, s.cfg.marker, s.cfg.maxTokens)
	s.stats.Lines++

	var mainLine, sideLine string
	switch kind {
	case KindMarkup, KindOverlong:
		if kind == KindMarkup {
			s.stats.Markup++
		} else {
			s.stats.Overlong++
			s.logger.Debug("overlong line", "line", s.stats.Lines, "tokens", countTokens(line))
		}
		sideLine = strings.TrimRightFunc(line, unicode.IsSpace)
	default:
		s.stats.Plain++
		mainLine = strings.TrimSpace(line)
	}

	if _, err := io.WriteString(s.side, sideLine+"\n"); err != nil {
		return fmt.Errorf("writing side output: %w", err)
	}
	if _, err := io.WriteString(s.out, mainLine+"\n"); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// Run routes every line of r until end of input or ctx is cancelled.
func (s *Separator) Run(ctx context.Context, r io.Reader) (SeparatorStats, error) {
	sc := newLineScanner(r, s.cfg.maxLineBytes)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return s.stats, err
		}
		if err := s.Line(sc.Text()); err != nil {
			return s.stats, err
		}
	}
	if err := sc.Err(); err != nil {
		return s.stats, scanError(err)
	}

	s.logger.Info("separated lines",
		"lines", s.stats.Lines,
		"markup", s.stats.Markup,
		"overlong", s.stats.Overlong,
		"plain", s.stats.Plain,
	)
	return s.stats, nil
}

// Stats returns the counts accumulated so far.
func (s *Separator) Stats() SeparatorStats {
	return s.stats
}
