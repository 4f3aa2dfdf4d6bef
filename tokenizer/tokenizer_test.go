package tokenizer

import (
	"testing"
)

func newTestTokenizer(t *testing.T) *Tokenizer {
	t.Helper()
	tok, err := New(writeTestModel(t))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		if err := tok.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return tok
}

func TestNew(t *testing.T) {
	tok := newTestTokenizer(t)

	if got, want := tok.VocabSize(), len(testPieces)+2; got != want {
		t.Errorf("expected vocab size = %d, got %d", want, got)
	}

	// HuggingFace XLM-RoBERTa ids, not SentencePiece indices.
	if tok.BOSID() != 0 || tok.PadID() != 1 || tok.EOSID() != 2 || tok.UnkID() != 3 {
		t.Errorf("unexpected special ids: bos=%d pad=%d eos=%d unk=%d",
			tok.BOSID(), tok.PadID(), tok.EOSID(), tok.UnkID())
	}
}

func TestNew_FileNotFound(t *testing.T) {
	_, err := New("../testdata/nonexistent.model")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestNew_UnsupportedModelType(t *testing.T) {
	model := &Model{Pieces: testPieces, TrainerSpec: TrainerSpec{ModelType: ModelBPE}}
	if _, err := FromModel(model); err == nil {
		t.Error("expected error for BPE model")
	}
}

func TestTokenizer_Encode(t *testing.T) {
	tok := newTestTokenizer(t)

	tests := []struct {
		name  string
		input string
		want  []TokenInfo
	}{
		{
			name:  "sentence",
			input: "Hello world.",
			want: []TokenInfo{
				{ID: 4, Text: "▁Hello", Start: 0, End: 5},
				{ID: 5, Text: "▁world", Start: 6, End: 11},
				{ID: 6, Text: ".", Start: 11, End: 12},
			},
		},
		{
			name:  "irregular spacing",
			input: "  Hello   world. ",
			want: []TokenInfo{
				{ID: 4, Text: "▁Hello", Start: 2, End: 7},
				{ID: 5, Text: "▁world", Start: 10, End: 15},
				{ID: 6, Text: ".", Start: 15, End: 16},
			},
		},
		{
			name:  "unknown rune",
			input: "Hello ☃",
			want: []TokenInfo{
				{ID: 4, Text: "▁Hello", Start: 0, End: 5},
				{ID: 7, Text: "▁", Start: 6, End: 6},
				{ID: 3, Text: "☃", Start: 6, End: 9},
			},
		},
		{
			name:  "ligature",
			input: "ﬁne",
			want: []TokenInfo{
				{ID: 8, Text: "▁fi", Start: 0, End: 3},
				{ID: 9, Text: "ne", Start: 3, End: 5},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tok.Encode(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("Encode(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("token %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestTokenizer_Encode_Empty(t *testing.T) {
	tok := newTestTokenizer(t)

	if got := tok.Encode(""); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
	if got := tok.Encode("   "); got != nil {
		t.Errorf("expected nil for whitespace, got %v", got)
	}
}

func TestTokenizer_EncodeIDs_Simple(t *testing.T) {
	tok := newTestTokenizer(t)

	ids := tok.EncodeIDs("Hello")
	if len(ids) == 0 {
		t.Error("expected non-empty token IDs")
	}

	for i, id := range ids {
		if id < 0 || int(id) >= tok.VocabSize() {
			t.Errorf("token %d: invalid ID %d", i, id)
		}
	}
}
