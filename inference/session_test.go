package inference

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

const testModelPath = "../testdata/model_optimized.onnx"

// newTestSession opens the test model, skipping when the model or the ONNX
// runtime is unavailable.
func newTestSession(t *testing.T) *Session {
	t.Helper()
	if _, err := os.Stat(testModelPath); err != nil {
		t.Skipf("Skipping: model not available at %s", testModelPath)
	}

	session, err := NewSession(testModelPath, DefaultConfig())
	if err != nil {
		if isORTUnavailableError(err) {
			t.Skipf("Skipping: ONNX runtime not available: %v", err)
		}
		t.Fatalf("NewSession failed: %v", err)
	}
	return session
}

func TestNewSession_FileNotFound(t *testing.T) {
	_, err := NewSession("../testdata/nonexistent.onnx", DefaultConfig())
	if err == nil {
		t.Error("expected error for non-existent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.InputIDs != "input_ids" || cfg.AttentionMask != "attention_mask" || cfg.Logits != "logits" {
		t.Errorf("unexpected tensor names: %+v", cfg)
	}
	if cfg.LibraryPath != "" {
		t.Errorf("expected empty library path, got %q", cfg.LibraryPath)
	}
}

func TestSession_Infer(t *testing.T) {
	session := newTestSession(t)
	defer func() { _ = session.Close() }()

	// <s> Hello , I like cats . </s>
	inputIDs := []int64{0, 35378, 8, 38, 3714, 43033, 5, 2}
	attentionMask := make([]int64, len(inputIDs))
	for i := range attentionMask {
		attentionMask[i] = 1
	}

	logits, err := session.Infer(context.Background(), inputIDs, attentionMask)
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}

	if len(logits) != len(inputIDs) {
		t.Errorf("expected %d logits, got %d", len(inputIDs), len(logits))
	}
}

func TestSession_Infer_MismatchedInputs(t *testing.T) {
	session := newTestSession(t)
	defer func() { _ = session.Close() }()

	_, err := session.Infer(context.Background(), []int64{0, 1, 2}, []int64{1})
	if err == nil {
		t.Error("expected error for mismatched input lengths")
	}
}

func TestSession_Infer_ContextCancellation(t *testing.T) {
	session := newTestSession(t)
	defer func() { _ = session.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := session.Infer(ctx, []int64{0, 35378, 2}, []int64{1, 1, 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled error, got: %v", err)
	}
}

func TestSession_Infer_ContextTimeout(t *testing.T) {
	session := newTestSession(t)
	defer func() { _ = session.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	_, err := session.Infer(ctx, []int64{0, 35378, 2}, []int64{1, 1, 1})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded error, got: %v", err)
	}
}

func TestSession_Close_Idempotent(t *testing.T) {
	session := newTestSession(t)

	if err := session.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := session.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestSession_Infer_AfterClose(t *testing.T) {
	session := newTestSession(t)

	if err := session.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	_, err := session.Infer(context.Background(), []int64{0, 35378, 2}, []int64{1, 1, 1})
	if !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got: %v", err)
	}
}

// isORTUnavailableError checks if the error indicates ONNX runtime is not available.
func isORTUnavailableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "onnxruntime") ||
		strings.Contains(errStr, "shared library") ||
		strings.Contains(errStr, "dylib") ||
		strings.Contains(errStr, ".so") ||
		strings.Contains(errStr, ".dll") ||
		strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "cannot open") ||
		strings.Contains(errStr, "initializing ONNX runtime")
}
