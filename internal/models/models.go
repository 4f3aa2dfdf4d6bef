// Package models locates model artifacts and opens the configured sentence
// boundary backend.
package models

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"

	sgmlprep "github.com/jamesainslie/go-sgmlprep"
	"github.com/jamesainslie/go-sgmlprep/inference"
	"github.com/jamesainslie/go-sgmlprep/punkt"
	"github.com/jamesainslie/go-sgmlprep/rules"
	"github.com/jamesainslie/go-sgmlprep/sat"
)

// Artifact file names inside the model directory.
const (
	SaTModelFile  = "model_optimized.onnx"
	TokenizerFile = "sentencepiece.bpe.model"
	PunktFile     = "punkt.json"
)

// ErrUnknownBackend is returned for a backend name other than sat, punkt or rules.
var ErrUnknownBackend = errors.New("models: unknown backend")

// Backend names a sentence boundary implementation.
type Backend string

const (
	BackendSaT   Backend = "sat"
	BackendPunkt Backend = "punkt"
	BackendRules Backend = "rules"
)

// ParseBackend parses a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendSaT, BackendPunkt, BackendRules:
		return b, nil
	case "":
		return BackendSaT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// Segmenter is a sentence model that holds resources until closed.
type Segmenter interface {
	sgmlprep.Model
	io.Closer
}

// Options selects and configures a backend.
type Options struct {
	Backend     Backend
	Dir         string // empty resolves to DefaultDir
	Threshold   float32
	ONNXLibrary string
	Logger      *slog.Logger
}

// DefaultDir returns the model directory next to the running executable.
func DefaultDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "model"), nil
}

// Open loads the backend named in opts. Artifact BLAKE3 digests are logged at
// info level before loading.
func Open(opts Options) (Segmenter, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	backend := opts.Backend
	if backend == "" {
		backend = BackendSaT
	}
	if backend == BackendRules {
		logger.Info("using rule-based sentence splitter")
		return rules.New(), nil
	}

	dir := opts.Dir
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	switch backend {
	case BackendSaT:
		return openSaT(dir, opts, logger)
	case BackendPunkt:
		return openPunkt(dir, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func openSaT(dir string, opts Options, logger *slog.Logger) (Segmenter, error) {
	modelPath := filepath.Join(dir, SaTModelFile)
	tokenizerPath := filepath.Join(dir, TokenizerFile)

	for _, path := range []string{modelPath, tokenizerPath} {
		logFingerprint(logger, path)
	}

	satOpts := []sat.Option{
		sat.WithLogger(logger),
		sat.WithSessionConfig(inference.Config{LibraryPath: opts.ONNXLibrary}),
	}
	if opts.Threshold > 0 {
		satOpts = append(satOpts, sat.WithThreshold(opts.Threshold))
	}

	m, err := sat.New(modelPath, tokenizerPath, satOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading SaT model from %s: %w", dir, err)
	}
	logger.Info("loaded SaT model", "dir", dir, "threshold", m.Threshold())
	return m, nil
}

// openPunkt loads dir/punkt.json, falling back to the bundled English
// parameters when the directory has none.
func openPunkt(dir string, logger *slog.Logger) (Segmenter, error) {
	path := filepath.Join(dir, PunktFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Info("no Punkt training data, using bundled English parameters", "path", path)
		m, err := punkt.English()
		if err != nil {
			return nil, err
		}
		return m, nil
	}

	logFingerprint(logger, path)
	m, err := punkt.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading Punkt model from %s: %w", dir, err)
	}
	logger.Info("loaded Punkt model", "path", path)
	return m, nil
}

func logFingerprint(logger *slog.Logger, path string) {
	sum, err := Fingerprint(path)
	if err != nil {
		logger.Debug("cannot fingerprint model artifact", "path", path, "error", err)
		return
	}
	logger.Info("model artifact", "path", path, "blake3", sum)
}

// Fingerprint returns the hex BLAKE3-256 digest of the file at path.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
