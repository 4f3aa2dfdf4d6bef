package sgmlprep

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// State is the buffering state of a Splitter.
type State int

const (
	// Idle means no plain lines are buffered.
	Idle State = iota
	// Buffering means at least one plain line awaits a flush.
	Buffering
)

func (s State) String() string {
	if s == Buffering {
		return "buffering"
	}
	return "idle"
}

// SplitterStats counts what a Splitter processed.
type SplitterStats struct {
	Lines       int
	Markup      int
	Paragraphs  int
	Sentences   int
	Corrections int
}

// Splitter reassembles wrapped plain-text lines into paragraphs and writes
// them one sentence per line. Markup lines pass through; blank lines end the
// current paragraph and are preserved.
//
// A Splitter is not safe for concurrent use.
type Splitter struct {
	model  Model
	out    io.Writer
	cfg    config
	logger *slog.Logger

	state State
	buf   []string
	stats SplitterStats
}

// NewSplitter creates a Splitter that segments paragraphs with model and
// writes to out.
func NewSplitter(model Model, out io.Writer, opts ...Option) *Splitter {
	cfg := newConfig(opts)
	return &Splitter{
		model:  model,
		out:    out,
		cfg:    cfg,
		logger: cfg.logger,
	}
}

// State returns the current buffering state.
func (s *Splitter) State() State {
	return s.state
}

// Buffered returns the normalized lines waiting to be flushed.
func (s *Splitter) Buffered() []string {
	return append([]string(nil), s.buf...)
}

// Stats returns the counts accumulated so far.
func (s *Splitter) Stats() SplitterStats {
	return s.stats
}

// Feed processes one input line. The line must not include its terminator.
func (s *Splitter) Feed(ctx context.Context, line string) error {
	s.stats.Lines++
	line = strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(line, s.cfg.marker):
		s.stats.Markup++
		if err := s.Flush(ctx); err != nil {
			return err
		}
		return s.writeLine(line)

	case line == "":
		if err := s.Flush(ctx); err != nil {
			return err
		}
		return s.writeLine("")

	default:
		s.buf = append(s.buf, NormalizeSpace(line))
		s.state = Buffering
		return nil
	}
}

// Flush segments the buffered paragraph, writes its sentences and returns the
// Splitter to Idle. It is a no-op when nothing is buffered.
//
// If the model's sentences, joined with single spaces, are shorter than the
// paragraph, the rest of the paragraph is written as one more sentence and an
// "SBD ERROR\t<paragraph>" line goes to the diagnostics writer.
func (s *Splitter) Flush(ctx context.Context) error {
	if s.state == Idle {
		return nil
	}
	if s.model == nil {
		return ErrNilModel
	}

	text := strings.Join(s.buf, " ")
	s.buf = s.buf[:0]
	s.state = Idle
	s.stats.Paragraphs++

	sentences, correction, err := SegmentParagraph(ctx, s.model, text)
	if err != nil {
		return fmt.Errorf("segmenting paragraph %d: %w", s.stats.Paragraphs, err)
	}
	if correction != nil {
		s.stats.Corrections++
		if err := s.report(correction); err != nil {
			return err
		}
	}

	for _, sent := range sentences {
		if err := s.writeLine(sent); err != nil {
			return err
		}
	}
	s.stats.Sentences += len(sentences)
	return nil
}

// Close flushes any buffered paragraph. Call it at end of input.
func (s *Splitter) Close(ctx context.Context) error {
	return s.Flush(ctx)
}

// Run feeds every line of r, then flushes the final paragraph.
func (s *Splitter) Run(ctx context.Context, r io.Reader) (SplitterStats, error) {
	sc := newLineScanner(r, s.cfg.maxLineBytes)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return s.stats, err
		}
		if err := s.Feed(ctx, sc.Text()); err != nil {
			return s.stats, err
		}
	}
	if err := sc.Err(); err != nil {
		return s.stats, scanError(err)
	}
	if err := s.Close(ctx); err != nil {
		return s.stats, err
	}

	s.logger.Info("split sentences",
		"lines", s.stats.Lines,
		"markup", s.stats.Markup,
		"paragraphs", s.stats.Paragraphs,
		"sentences", s.stats.Sentences,
		"corrections", s.stats.Corrections,
	)
	return s.stats, nil
}

func (s *Splitter) report(c *Correction) error {
	s.logger.Debug("model dropped trailing text",
		"paragraph", s.stats.Paragraphs,
		"matched", c.Matched,
		"length", len(c.Text),
		"recovered", len(c.Suffix),
	)
	if _, err := io.WriteString(s.cfg.diagnostics, "SBD ERROR\t"+c.Text+"\n"); err != nil {
		return fmt.Errorf("writing diagnostic: %w", err)
	}
	return nil
}

func (s *Splitter) writeLine(line string) error {
	if _, err := io.WriteString(s.out, line+"\n"); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
