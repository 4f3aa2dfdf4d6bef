// Package punkt segments text with trained Punkt parameters.
//
// Training data is the JSON produced by the neurosnap/sentences trainer (the
// same format NLTK's Punkt parameters are exported to). English parameters
// ship with the library and are available without any model file.
package punkt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// ErrInvalidTraining is returned when the training data cannot be decoded.
var ErrInvalidTraining = errors.New("punkt: invalid training data")

type sentenceTokenizer interface {
	Tokenize(text string) []*sentences.Sentence
}

// Model segments text with a Punkt sentence tokenizer.
type Model struct {
	tokenizer sentenceTokenizer
}

// Load reads Punkt training JSON from path.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading training data: %w", err)
	}
	return Parse(data)
}

// Parse builds a Model from Punkt training JSON.
func Parse(data []byte) (*Model, error) {
	storage, err := sentences.LoadTraining(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTraining, err)
	}
	return &Model{tokenizer: sentences.NewSentenceTokenizer(storage)}, nil
}

// English returns a Model using the English parameters bundled with the
// tokenizer library.
func English() (*Model, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTraining, err)
	}
	return &Model{tokenizer: tok}, nil
}

// Segment splits text into sentences.
func (m *Model) Segment(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := m.tokenizer.Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, s := range tokens {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// Close is a no-op; Punkt parameters hold no external resources.
func (m *Model) Close() error {
	return nil
}
