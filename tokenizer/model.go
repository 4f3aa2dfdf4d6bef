package tokenizer

import (
	"errors"
	"fmt"
	"math"
	"os"

	"google.golang.org/protobuf/encoding/protowire"
)

// PieceType mirrors SentencePiece's ModelProto.SentencePiece.Type.
type PieceType int32

// Piece types.
const (
	PieceNormal      PieceType = 1
	PieceUnknown     PieceType = 2
	PieceControl     PieceType = 3
	PieceUserDefined PieceType = 4
	PieceUnused      PieceType = 5
	PieceByte        PieceType = 6
)

// ModelType mirrors SentencePiece's TrainerSpec.ModelType.
type ModelType int32

// Model types.
const (
	ModelUnigram ModelType = 1
	ModelBPE     ModelType = 2
	ModelWord    ModelType = 3
	ModelChar    ModelType = 4
)

// Field numbers from sentencepiece_model.proto.
const (
	fieldModelPieces     protowire.Number = 1
	fieldModelTrainer    protowire.Number = 2
	fieldModelNormalizer protowire.Number = 3

	fieldPieceText  protowire.Number = 1
	fieldPieceScore protowire.Number = 2
	fieldPieceType  protowire.Number = 3

	fieldTrainerModelType protowire.Number = 3
	fieldTrainerUnkID     protowire.Number = 40
	fieldTrainerBosID     protowire.Number = 41
	fieldTrainerEosID     protowire.Number = 42
	fieldTrainerPadID     protowire.Number = 43

	fieldNormalizerName        protowire.Number = 1
	fieldNormalizerDummyPrefix protowire.Number = 3
)

var errWireType = errors.New("unexpected wire type")

// Piece represents a vocabulary piece from the model.
type Piece struct {
	Piece string
	Score float32
	Type  PieceType
}

// TrainerSpec holds the trainer settings the tokenizer depends on.
type TrainerSpec struct {
	ModelType ModelType
	UnkID     int32
	BosID     int32
	EosID     int32
	PadID     int32
}

// NormalizerSpec holds the normalizer settings the tokenizer depends on.
type NormalizerSpec struct {
	Name           string
	AddDummyPrefix bool
}

// Model represents a loaded SentencePiece model.
type Model struct {
	Pieces         []Piece
	TrainerSpec    TrainerSpec
	NormalizerSpec NormalizerSpec
}

// LoadModel loads a SentencePiece model from a .model file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}

	m, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("parsing protobuf: %w", err)
	}
	return m, nil
}

// ParseModel decodes a serialized SentencePiece ModelProto. Fields the
// tokenizer does not use are skipped.
func ParseModel(data []byte) (*Model, error) {
	m := &Model{
		TrainerSpec: TrainerSpec{
			ModelType: ModelUnigram,
			UnkID:     0,
			BosID:     1,
			EosID:     2,
			PadID:     -1,
		},
		NormalizerSpec: NormalizerSpec{AddDummyPrefix: true},
	}

	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldModelPieces:
			v, n, err := consumeMessage(typ, b)
			if err != nil {
				return 0, fmt.Errorf("piece %d: %w", len(m.Pieces), err)
			}
			p, err := parsePiece(v)
			if err != nil {
				return 0, fmt.Errorf("piece %d: %w", len(m.Pieces), err)
			}
			m.Pieces = append(m.Pieces, p)
			return n, nil
		case fieldModelTrainer:
			v, n, err := consumeMessage(typ, b)
			if err != nil {
				return 0, fmt.Errorf("trainer_spec: %w", err)
			}
			return n, parseTrainer(v, &m.TrainerSpec)
		case fieldModelNormalizer:
			v, n, err := consumeMessage(typ, b)
			if err != nil {
				return 0, fmt.Errorf("normalizer_spec: %w", err)
			}
			return n, parseNormalizer(v, &m.NormalizerSpec)
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if len(m.Pieces) == 0 {
		return nil, errors.New("model has no pieces")
	}
	return m, nil
}

func parsePiece(data []byte) (Piece, error) {
	p := Piece{Type: PieceNormal}
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldPieceText:
			v, n, err := consumeMessage(typ, b)
			if err != nil {
				return 0, err
			}
			p.Piece = string(v)
			return n, nil
		case fieldPieceScore:
			if typ != protowire.Fixed32Type {
				return 0, errWireType
			}
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			p.Score = math.Float32frombits(v)
			return n, nil
		case fieldPieceType:
			v, n, err := consumeVarint(typ, b)
			if err != nil {
				return 0, err
			}
			p.Type = PieceType(v)
			return n, nil
		}
		return -1, nil
	})
	return p, err
}

func parseTrainer(data []byte, ts *TrainerSpec) error {
	return walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		var dst *int32
		switch num {
		case fieldTrainerModelType:
			v, n, err := consumeVarint(typ, b)
			if err != nil {
				return 0, err
			}
			ts.ModelType = ModelType(v)
			return n, nil
		case fieldTrainerUnkID:
			dst = &ts.UnkID
		case fieldTrainerBosID:
			dst = &ts.BosID
		case fieldTrainerEosID:
			dst = &ts.EosID
		case fieldTrainerPadID:
			dst = &ts.PadID
		default:
			return -1, nil
		}
		v, n, err := consumeVarint(typ, b)
		if err != nil {
			return 0, err
		}
		*dst = int32(v)
		return n, nil
	})
}

func parseNormalizer(data []byte, ns *NormalizerSpec) error {
	return walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldNormalizerName:
			v, n, err := consumeMessage(typ, b)
			if err != nil {
				return 0, err
			}
			ns.Name = string(v)
			return n, nil
		case fieldNormalizerDummyPrefix:
			v, n, err := consumeVarint(typ, b)
			if err != nil {
				return 0, err
			}
			ns.AddDummyPrefix = v != 0
			return n, nil
		}
		return -1, nil
	})
}

// walk calls fn for every field in a message. fn returns the number of bytes
// it consumed, or -1 to have the field skipped.
func walk(data []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		used, err := fn(num, typ, data)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		if used < 0 {
			used = protowire.ConsumeFieldValue(num, typ, data)
			if used < 0 {
				return protowire.ParseError(used)
			}
		}
		data = data[used:]
	}
	return nil
}

func consumeMessage(typ protowire.Type, b []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, errWireType
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeVarint(typ protowire.Type, b []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, errWireType
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}
