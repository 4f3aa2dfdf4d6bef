package sat

import (
	"log/slog"

	"github.com/jamesainslie/go-sgmlprep/inference"
)

const (
	// DefaultThreshold is the boundary probability above which a token ends a sentence.
	DefaultThreshold = 0.025

	// maxSeqLen is the maximum sequence length supported by the model,
	// including the <s> and </s> wrapped around every chunk.
	maxSeqLen = 512

	// chunkOverlap is the number of overlapping tokens between chunks.
	chunkOverlap = 64
)

// Option configures a Model.
type Option func(*config)

type config struct {
	threshold float32
	session   inference.Config
	logger    *slog.Logger
	seqLen    int
	overlap   int
}

func defaultConfig() config {
	return config{
		threshold: DefaultThreshold,
		session:   inference.DefaultConfig(),
		logger:    slog.Default(),
		seqLen:    maxSeqLen,
		overlap:   chunkOverlap,
	}
}

// WithThreshold sets the boundary detection threshold (default: 0.025).
func WithThreshold(t float32) Option {
	return func(c *config) {
		c.threshold = t
	}
}

// WithSessionConfig sets tensor names and the onnxruntime library path.
func WithSessionConfig(sc inference.Config) Option {
	return func(c *config) {
		def := inference.DefaultConfig()
		if sc.InputIDs == "" {
			sc.InputIDs = def.InputIDs
		}
		if sc.AttentionMask == "" {
			sc.AttentionMask = def.AttentionMask
		}
		if sc.Logits == "" {
			sc.Logits = def.Logits
		}
		c.session = sc
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
