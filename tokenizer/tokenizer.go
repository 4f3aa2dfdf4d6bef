// Package tokenizer implements XLM-RoBERTa compatible SentencePiece Unigram
// tokenization with byte offsets into the original text.
package tokenizer

import (
	"fmt"
	"unicode/utf8"
)

// Tokenizer implements XLM-RoBERTa compatible SentencePiece Unigram tokenization.
//
// Note: Token IDs are remapped from SentencePiece indices to match HuggingFace
// XLM-RoBERTa convention:
//   - HF[0] = <s>   (SP[1])
//   - HF[1] = <pad> (not in SentencePiece)
//   - HF[2] = </s>  (SP[2])
//   - HF[3] = <unk> (SP[0])
//   - HF[n+1] = SP[n] for n >= 3 (normal tokens shifted by 1)
type Tokenizer struct {
	pieces    map[string]int32   // token string -> SentencePiece index
	scores    map[string]float32 // token string -> log probability
	idToPiece []string           // SentencePiece index -> token string
	unkScore  float32

	normOpts normalizeOptions

	maxTokenLen int // in runes
}

// TokenInfo represents a token with its position in the original text.
type TokenInfo struct {
	ID    int32
	Text  string
	Start int // byte offset in original text
	End   int // byte offset in original text
}

// unkPenalty matches SentencePiece's kUnkPenalty.
const unkPenalty = 10

// HuggingFace XLM-RoBERTa special token IDs.
const (
	bosID int32 = 0 // <s>
	padID int32 = 1 // <pad>
	eosID int32 = 2 // </s>
	unkID int32 = 3 // <unk>
)

// New loads a tokenizer from a SentencePiece .model file.
func New(modelPath string) (*Tokenizer, error) {
	model, err := LoadModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}
	return FromModel(model)
}

// FromModel builds a tokenizer from an already decoded model.
func FromModel(model *Model) (*Tokenizer, error) {
	if model.TrainerSpec.ModelType != ModelUnigram {
		return nil, fmt.Errorf("unsupported model type %d: only unigram is implemented", model.TrainerSpec.ModelType)
	}

	t := &Tokenizer{
		pieces:    make(map[string]int32, len(model.Pieces)),
		scores:    make(map[string]float32, len(model.Pieces)),
		idToPiece: make([]string, len(model.Pieces)),
		normOpts: normalizeOptions{
			nfkc:        usesNFKC(model.NormalizerSpec.Name),
			dummyPrefix: model.NormalizerSpec.AddDummyPrefix,
		},
	}

	for i, piece := range model.Pieces {
		pieceStr := piece.Piece
		t.idToPiece[i] = pieceStr

		// Only normal and user-defined pieces match text.
		if piece.Type != PieceNormal && piece.Type != PieceUserDefined {
			continue
		}

		t.pieces[pieceStr] = int32(i)
		t.scores[pieceStr] = piece.Score

		if l := utf8.RuneCountInString(pieceStr); l > t.maxTokenLen {
			t.maxTokenLen = l
		}
	}

	// Unknown characters are penalized below every real piece.
	t.unkScore = minScore(model.Pieces) - unkPenalty

	return t, nil
}

func minScore(pieces []Piece) float32 {
	var m float32
	for _, p := range pieces {
		if p.Score < m {
			m = p.Score
		}
	}
	return m
}

// spIndexToHFID converts a SentencePiece index to a HuggingFace XLM-RoBERTa token ID.
//
// Mapping:
//   - SP[0] (<unk>) -> HF[3]
//   - SP[1] (<s>)   -> HF[0]
//   - SP[2] (</s>)  -> HF[2]
//   - SP[n] (n>=3)  -> HF[n+1] (normal tokens shifted by 1 due to <pad> insertion)
func (t *Tokenizer) spIndexToHFID(spIndex int32) int32 {
	switch spIndex {
	case 0: // <unk>
		return unkID
	case 1: // <s>
		return bosID
	case 2: // </s>
		return eosID
	default: // normal tokens: shift by 1
		return spIndex + 1
	}
}

// Close releases tokenizer resources.
func (t *Tokenizer) Close() error {
	return nil
}

// VocabSize returns the HuggingFace vocabulary size: the SentencePiece pieces
// plus <pad> and <mask>.
func (t *Tokenizer) VocabSize() int {
	return len(t.idToPiece) + 2
}

// BOSID returns the beginning-of-sentence token ID.
func (t *Tokenizer) BOSID() int32 { return bosID }

// PadID returns the padding token ID.
func (t *Tokenizer) PadID() int32 { return padID }

// EOSID returns the end-of-sentence token ID.
func (t *Tokenizer) EOSID() int32 { return eosID }

// UnkID returns the unknown token ID.
func (t *Tokenizer) UnkID() int32 { return unkID }
