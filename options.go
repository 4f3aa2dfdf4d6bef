package sgmlprep

import (
	"io"
	"log/slog"
)

const (
	// DefaultMarker opens an SGML tag.
	DefaultMarker = "<"

	// DefaultMaxTokens is the whitespace-token count above which a line is overlong.
	DefaultMaxTokens = 100

	// DefaultMaxLineBytes bounds a single input line.
	DefaultMaxLineBytes = 64 << 20
)

// Option configures a Separator or Splitter.
type Option func(*config)

type config struct {
	marker       string
	maxTokens    int
	maxLineBytes int
	diagnostics  io.Writer
	logger       *slog.Logger
}

func defaultConfig() config {
	return config{
		marker:       DefaultMarker,
		maxTokens:    DefaultMaxTokens,
		maxLineBytes: DefaultMaxLineBytes,
		diagnostics:  io.Discard,
		logger:       slog.Default(),
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMarker sets the markup marker (default: "<").
func WithMarker(m string) Option {
	return func(c *config) {
		if m != "" {
			c.marker = m
		}
	}
}

// WithMaxTokens sets the overlong-line token limit (default: 100).
// Only the Separator uses it.
func WithMaxTokens(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithMaxLineBytes sets the largest accepted input line (default: 64 MiB).
func WithMaxLineBytes(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxLineBytes = n
		}
	}
}

// WithDiagnostics sets where dropped-sentence corrections are reported
// (default: discarded).
func WithDiagnostics(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.diagnostics = w
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
