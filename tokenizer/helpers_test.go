package tokenizer

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

// testPieces is a tiny XLM-R shaped vocabulary.
var testPieces = []Piece{
	{"<unk>", 0, PieceUnknown},
	{"<s>", 0, PieceControl},
	{"</s>", 0, PieceControl},
	{"▁Hello", -1, PieceNormal},
	{"▁world", -1, PieceNormal},
	{".", -1, PieceNormal},
	{"▁", -2, PieceNormal},
	{"▁fi", -1, PieceNormal},
	{"ne", -1, PieceNormal},
	{"H", -5, PieceNormal},
	{"e", -5, PieceNormal},
	{"l", -5, PieceNormal},
	{"o", -5, PieceNormal},
}

// encodeModel serializes pieces into a SentencePiece ModelProto.
func encodeModel(pieces []Piece, normalizerName string, padID int32) []byte {
	var b []byte
	for _, p := range pieces {
		var pb []byte
		pb = protowire.AppendTag(pb, fieldPieceText, protowire.BytesType)
		pb = protowire.AppendString(pb, p.Piece)
		pb = protowire.AppendTag(pb, fieldPieceScore, protowire.Fixed32Type)
		pb = protowire.AppendFixed32(pb, math.Float32bits(p.Score))
		pb = protowire.AppendTag(pb, fieldPieceType, protowire.VarintType)
		pb = protowire.AppendVarint(pb, uint64(p.Type))

		b = protowire.AppendTag(b, fieldModelPieces, protowire.BytesType)
		b = protowire.AppendBytes(b, pb)
	}

	var tb []byte
	tb = protowire.AppendTag(tb, fieldTrainerModelType, protowire.VarintType)
	tb = protowire.AppendVarint(tb, uint64(ModelUnigram))
	tb = protowire.AppendTag(tb, fieldTrainerPadID, protowire.VarintType)
	tb = protowire.AppendVarint(tb, uint64(int64(padID)))
	// vocab_size (field 4) is not read and must be skipped.
	tb = protowire.AppendTag(tb, 4, protowire.VarintType)
	tb = protowire.AppendVarint(tb, uint64(len(pieces)))
	b = protowire.AppendTag(b, fieldModelTrainer, protowire.BytesType)
	b = protowire.AppendBytes(b, tb)

	var nb []byte
	nb = protowire.AppendTag(nb, fieldNormalizerName, protowire.BytesType)
	nb = protowire.AppendString(nb, normalizerName)
	nb = protowire.AppendTag(nb, fieldNormalizerDummyPrefix, protowire.VarintType)
	nb = protowire.AppendVarint(nb, 1)
	b = protowire.AppendTag(b, fieldModelNormalizer, protowire.BytesType)
	b = protowire.AppendBytes(b, nb)

	return b
}

// writeTestModel writes the test vocabulary to a temp file and returns its path.
func writeTestModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.model")
	if err := os.WriteFile(path, encodeModel(testPieces, "nmt_nfkc", -1), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
