package sgmlprep

import "context"

// Model splits a paragraph into sentences.
//
// Implementations are expected to return sentences in order and, concatenated
// with single spaces, to reproduce text. Splitter tolerates models that drop
// trailing text; see Splitter.Flush.
type Model interface {
	Segment(ctx context.Context, text string) ([]string, error)
}

// ModelFunc adapts a function to the Model interface.
type ModelFunc func(ctx context.Context, text string) ([]string, error)

// Segment calls f(ctx, text).
func (f ModelFunc) Segment(ctx context.Context, text string) ([]string, error) {
	return f(ctx, text)
}
