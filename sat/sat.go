// Package sat detects sentence boundaries with wtpsplit/SaT ONNX models.
//
// Segmentation runs in four steps that can be called individually:
//
//	doc := model.Prepare(text)           // tokenize
//	err := model.Featurize(ctx, doc)     // per-token boundary logits
//	model.Classify(doc)                  // threshold logits into boundaries
//	sentences := doc.Sentences()         // cut the text
//
// Segment runs all four.
//
// # Model Files
//
// Download from HuggingFace:
//   - Model: https://huggingface.co/segment-any-text/sat-1l-sm/resolve/main/model_optimized.onnx
//   - Tokenizer: https://huggingface.co/xlm-roberta-base/resolve/main/sentencepiece.bpe.model
package sat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jamesainslie/go-sgmlprep/inference"
	"github.com/jamesainslie/go-sgmlprep/tokenizer"
)

// scorer produces one boundary logit per input token.
type scorer interface {
	Infer(ctx context.Context, inputIDs, attentionMask []int64) ([]float32, error)
	Close() error
}

// Model segments text into sentences with a SaT ONNX model.
// It holds a single ONNX session and is meant to be used from one goroutine.
type Model struct {
	tokenizer *tokenizer.Tokenizer
	scorer    scorer
	threshold float32
	seqLen    int
	overlap   int
	logger    *slog.Logger
}

// Document carries a paragraph through the segmentation steps.
type Document struct {
	Text       string
	Tokens     []tokenizer.TokenInfo
	Logits     []float32 // one per token, set by Featurize
	Boundaries []int     // byte offsets where sentences end, set by Classify
}

// New creates a Model with the specified model files.
func New(modelPath, tokenizerPath string, opts ...Option) (*Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := os.Stat(modelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
		}
		return nil, fmt.Errorf("checking model file: %w", err)
	}

	tok, err := tokenizer.New(tokenizerPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTokenizerFailed, tokenizerPath)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenizerFailed, err)
	}

	session, err := inference.NewSession(modelPath, cfg.session)
	if err != nil {
		_ = tok.Close()
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	cfg.logger.Debug("loaded SaT model", "model", modelPath, "tokenizer", tokenizerPath, "vocab", tok.VocabSize())
	return newModel(tok, session, cfg), nil
}

func newModel(tok *tokenizer.Tokenizer, sc scorer, cfg config) *Model {
	return &Model{
		tokenizer: tok,
		scorer:    sc,
		threshold: cfg.threshold,
		seqLen:    cfg.seqLen,
		overlap:   cfg.overlap,
		logger:    cfg.logger,
	}
}

// Threshold returns the boundary probability threshold.
func (m *Model) Threshold() float32 {
	return m.threshold
}

// Segment splits text into sentences.
func (m *Model) Segment(ctx context.Context, text string) ([]string, error) {
	doc := m.Prepare(text)
	if err := m.Featurize(ctx, doc); err != nil {
		return nil, err
	}
	m.Classify(doc)
	return doc.Sentences(), nil
}

// Prepare tokenizes text.
func (m *Model) Prepare(text string) *Document {
	return &Document{
		Text:   text,
		Tokens: m.tokenizer.Encode(text),
	}
}

// Featurize runs the model over doc's tokens and stores one logit per token.
// Long documents are processed in overlapping chunks whose logits are averaged.
func (m *Model) Featurize(ctx context.Context, doc *Document) error {
	if len(doc.Tokens) == 0 {
		doc.Logits = nil
		return ctx.Err()
	}

	payload := m.seqLen - 2
	if len(doc.Tokens) <= payload {
		logits, err := m.inferChunk(ctx, doc.Tokens)
		if err != nil {
			return err
		}
		doc.Logits = logits
		return nil
	}

	logits := make([]float32, len(doc.Tokens))
	counts := make([]int, len(doc.Tokens))

	stride := payload - m.overlap
	for start := 0; start < len(doc.Tokens); start += stride {
		end := start + payload
		if end > len(doc.Tokens) {
			end = len(doc.Tokens)
		}

		chunkLogits, err := m.inferChunk(ctx, doc.Tokens[start:end])
		if err != nil {
			return err
		}
		for i, logit := range chunkLogits {
			logits[start+i] += logit
			counts[start+i]++
		}

		if end >= len(doc.Tokens) {
			break
		}
	}

	for i := range logits {
		if counts[i] > 1 {
			logits[i] /= float32(counts[i])
		}
	}

	m.logger.Debug("featurized in chunks", "tokens", len(doc.Tokens), "stride", stride)
	doc.Logits = logits
	return nil
}

// inferChunk wraps tokens in <s> ... </s>, runs the model and returns the
// logits of the tokens themselves.
func (m *Model) inferChunk(ctx context.Context, tokens []tokenizer.TokenInfo) ([]float32, error) {
	n := len(tokens) + 2
	inputIDs := make([]int64, n)
	attentionMask := make([]int64, n)

	inputIDs[0] = int64(m.tokenizer.BOSID())
	for i, t := range tokens {
		inputIDs[i+1] = int64(t.ID)
	}
	inputIDs[n-1] = int64(m.tokenizer.EOSID())
	for i := range attentionMask {
		attentionMask[i] = 1
	}

	logits, err := m.scorer.Infer(ctx, inputIDs, attentionMask)
	if err != nil {
		return nil, err
	}
	if len(logits) != n {
		return nil, fmt.Errorf("model returned %d logits for %d tokens", len(logits), n)
	}
	return logits[1 : n-1], nil
}

// Classify marks a boundary after every token whose boundary probability
// exceeds the threshold. A boundary must fall at the end of the text or before
// whitespace; token ends inside a word are skipped.
func (m *Model) Classify(doc *Document) {
	doc.Boundaries = doc.Boundaries[:0]
	last := 0
	for i, logit := range doc.Logits {
		if i >= len(doc.Tokens) || sigmoid(logit) <= m.threshold {
			continue
		}
		end := doc.Tokens[i].End
		if end > last && atWordEnd(doc.Text, end) {
			doc.Boundaries = append(doc.Boundaries, end)
			last = end
		}
	}
}

func atWordEnd(text string, i int) bool {
	if i == len(text) {
		return true
	}
	if i > len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return unicode.IsSpace(r)
}

// Sentences cuts doc.Text at its boundaries. Sentences are trimmed of
// surrounding whitespace; text after the last boundary is the final sentence.
func (d *Document) Sentences() []string {
	var sentences []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	start := 0
	for _, end := range d.Boundaries {
		add(d.Text[start:end])
		start = end
	}
	if start < len(d.Text) {
		add(d.Text[start:])
	}
	return sentences
}

// Close releases all resources.
func (m *Model) Close() error {
	var errs []error

	if m.scorer != nil {
		if err := m.scorer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if m.tokenizer != nil {
		if err := m.tokenizer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(float64(-x))))
}
