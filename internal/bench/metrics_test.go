package bench

import (
	"context"
	"errors"
	"testing"

	sgmlprep "github.com/jamesainslie/go-sgmlprep"
	"github.com/jamesainslie/go-sgmlprep/rules"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		predicted []int
		truth     []int
		tolerance int
		wantTP    int
		wantFP    int
		wantFN    int
	}{
		{
			name:      "perfect match",
			predicted: []int{10, 20, 30},
			truth:     []int{10, 20, 30},
			tolerance: 0,
			wantTP:    3,
			wantFP:    0,
			wantFN:    0,
		},
		{
			name:      "within tolerance",
			predicted: []int{11, 19, 31},
			truth:     []int{10, 20, 30},
			tolerance: 2,
			wantTP:    3,
			wantFP:    0,
			wantFN:    0,
		},
		{
			name:      "false positive",
			predicted: []int{10, 15, 20},
			truth:     []int{10, 20},
			tolerance: 0,
			wantTP:    2,
			wantFP:    1,
			wantFN:    0,
		},
		{
			name:      "false negative",
			predicted: []int{10},
			truth:     []int{10, 20},
			tolerance: 0,
			wantTP:    1,
			wantFP:    0,
			wantFN:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Tolerance: tt.tolerance}
			got := Evaluate(tt.predicted, tt.truth, cfg)

			if got.TruePositives != tt.wantTP {
				t.Errorf("TruePositives = %d, want %d", got.TruePositives, tt.wantTP)
			}
			if got.FalsePositives != tt.wantFP {
				t.Errorf("FalsePositives = %d, want %d", got.FalsePositives, tt.wantFP)
			}
			if got.FalseNegatives != tt.wantFN {
				t.Errorf("FalseNegatives = %d, want %d", got.FalseNegatives, tt.wantFN)
			}
		})
	}
}

func TestEvaluate_Scores(t *testing.T) {
	cfg := Config{PrecisionWeight: 3, RecallWeight: 1}
	m := Evaluate([]int{10, 15, 20}, []int{10, 20, 30, 40}, cfg)

	// tp=2 fp=1 fn=2
	if m.Precision < 0.666 || m.Precision > 0.667 {
		t.Errorf("Precision = %v, want 2/3", m.Precision)
	}
	if m.Recall != 0.5 {
		t.Errorf("Recall = %v, want 0.5", m.Recall)
	}
	if m.F1 < 0.571 || m.F1 > 0.572 {
		t.Errorf("F1 = %v, want 4/7", m.F1)
	}
	if m.WeightedScore < 0.624 || m.WeightedScore > 0.626 {
		t.Errorf("WeightedScore = %v, want 0.625", m.WeightedScore)
	}
}

func TestBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		sentences []string
		want      []int
	}{
		{"exact", "Hello world. How are you?", []string{"Hello world.", "How are you?"}, []int{12, 25}},
		{"single", "Hello.", []string{"Hello."}, []int{6}},
		{"not found", "abc def", []string{"xyz", "def"}, []int{3, 7}},
		{"overlong", "abc", []string{"abcdef"}, []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Boundaries(tt.text, tt.sentences)
			if len(got) != len(tt.want) {
				t.Fatalf("Boundaries() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Boundaries() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestEvaluateParagraph(t *testing.T) {
	p := newParagraph([]string{"Mr. Smith went home.", "He was tired."})

	m, err := EvaluateParagraph(context.Background(), rules.New(), p, DefaultConfig())
	if err != nil {
		t.Fatalf("EvaluateParagraph() error = %v", err)
	}
	if m.TruePositives != 2 || m.FalsePositives != 0 || m.FalseNegatives != 0 {
		t.Errorf("metrics = %+v", m)
	}
	if m.Corrections != 0 {
		t.Errorf("Corrections = %d, want 0", m.Corrections)
	}
}

func TestEvaluateParagraph_Correction(t *testing.T) {
	p := newParagraph([]string{"One.", "Two.", "Three."})

	// Keeps only the first sentence; the rest is recovered as one sentence.
	firstOnly := sgmlprep.ModelFunc(func(_ context.Context, text string) ([]string, error) {
		return []string{"One."}, nil
	})

	m, err := EvaluateParagraph(context.Background(), firstOnly, p, Config{})
	if err != nil {
		t.Fatalf("EvaluateParagraph() error = %v", err)
	}
	if m.Corrections != 1 {
		t.Errorf("Corrections = %d, want 1", m.Corrections)
	}
	if m.TruePositives != 2 || m.FalseNegatives != 1 {
		t.Errorf("metrics = %+v, want tp=2 fn=1", m)
	}
}

func TestEvaluateCorpus(t *testing.T) {
	docs := []*Document{
		{ID: "a", Paragraphs: []Paragraph{newParagraph([]string{"Hello world.", "How are you?"})}},
		{ID: "b", Paragraphs: []Paragraph{newParagraph([]string{"Dr. Jones called.", "She left."})}},
	}

	m, err := EvaluateCorpus(context.Background(), rules.New(), docs, DefaultConfig())
	if err != nil {
		t.Fatalf("EvaluateCorpus() error = %v", err)
	}
	if m.TruePositives != 4 || m.F1 != 1 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestEvaluateCorpus_ModelError(t *testing.T) {
	boom := errors.New("boom")
	failing := sgmlprep.ModelFunc(func(context.Context, string) ([]string, error) {
		return nil, boom
	})
	docs := []*Document{{ID: "a", Paragraphs: []Paragraph{newParagraph([]string{"One."})}}}

	if _, err := EvaluateCorpus(context.Background(), failing, docs, DefaultConfig()); !errors.Is(err, boom) {
		t.Errorf("expected model error, got %v", err)
	}
}
