package punkt

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testTrainingPath = "../testdata/punkt.json"

func TestEnglish_Segment(t *testing.T) {
	m, err := English()
	if err != nil {
		t.Fatalf("English() failed: %v", err)
	}
	defer func() { _ = m.Close() }()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"two sentences", "This is one. This is two.", 2},
		{"question", "Where did he go? Nobody knows.", 2},
		{"no terminal punctuation", "a fragment without an end", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Segment(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Segment failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Segment(%q) = %q, want %d sentences", tt.input, got, tt.want)
			}
			for _, s := range got {
				if s != strings.TrimSpace(s) {
					t.Errorf("sentence %q is not trimmed", s)
				}
			}
		})
	}
}

func TestEnglish_Segment_RoundTrip(t *testing.T) {
	m, err := English()
	if err != nil {
		t.Fatalf("English() failed: %v", err)
	}

	text := "The court met on Monday. It adjourned at noon. Nothing was decided."
	got, err := m.Segment(context.Background(), text)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if joined := strings.Join(got, " "); joined != text {
		t.Errorf("joined sentences = %q, want %q", joined, text)
	}
}

func TestModel_Segment_ContextCancelled(t *testing.T) {
	m, err := English()
	if err != nil {
		t.Fatalf("English() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Segment(ctx, "This is one."); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got: %v", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("not json"))
	if !errors.Is(err, ErrInvalidTraining) {
		t.Errorf("expected ErrInvalidTraining, got: %v", err)
	}
}

func TestLoad(t *testing.T) {
	if _, err := os.Stat(testTrainingPath); err != nil {
		t.Skipf("Skipping: Punkt training data not available at %s", testTrainingPath)
	}

	m, err := Load(testTrainingPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got, err := m.Segment(context.Background(), "Hello world. How are you?")
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if len(got) == 0 {
		t.Error("expected at least one sentence")
	}
}
