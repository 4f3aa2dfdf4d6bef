//go:build stave

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target when running `stave` with no arguments.
var Default = All

var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"c": Clean,
}

// binaries lists the commands under cmd/.
var binaries = []string{"separate-lines", "split-sentences", "sbd-eval"}

// modelFiles maps SaT artifacts to their download URLs.
var modelFiles = map[string]string{
	"model_optimized.onnx":    "https://huggingface.co/segment-any-text/sat-1l-sm/resolve/main/model_optimized.onnx",
	"sentencepiece.bpe.model": "https://huggingface.co/xlm-roberta-base/resolve/main/sentencepiece.bpe.model",
}

// All lints, tests and builds.
func All() error {
	st.Deps(Lint, Test)
	st.Deps(Build)
	return nil
}

// Build compiles every command into bin/.
func Build() error {
	for _, name := range binaries {
		if err := buildBinary(name); err != nil {
			return err
		}
	}
	return nil
}

// Build_Eval compiles sbd-eval only.
func Build_Eval() error {
	return buildBinary("sbd-eval")
}

func buildBinary(name string) error {
	out := filepath.Join("bin", name)
	rebuild, err := target.Glob(out, "**/*.go", "go.mod")
	if err != nil {
		return fmt.Errorf("checking %s: %w", name, err)
	}
	if !rebuild {
		if st.Verbose() {
			fmt.Printf("%s is up to date\n", name)
		}
		return nil
	}
	return sh.RunV("go", "build", "-o", out, "./cmd/"+name)
}

// Test runs all tests with race detection. Model-backed tests run when the
// artifacts are in testdata/ (see Models).
func Test() error {
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// Lint runs go vet and golangci-lint.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes bin/.
func Clean() error {
	return sh.Rm("bin")
}

// Models downloads the SaT model and tokenizer into testdata/ and
// bin/model/, where the installed binaries look for them by default.
func Models() error {
	for _, dir := range []string{"testdata", filepath.Join("bin", "model")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	for name, url := range modelFiles {
		dst := filepath.Join("testdata", name)
		if _, err := os.Stat(dst); err != nil {
			if err := sh.RunV("curl", "-fL", "-o", dst, url); err != nil {
				return fmt.Errorf("downloading %s: %w", name, err)
			}
		}
		if err := sh.Copy(filepath.Join("bin", "model", name), dst); err != nil {
			return err
		}
	}
	return nil
}

// Install copies the binaries and their model directory to GOBIN.
func Install() error {
	st.Deps(Build)

	bin, err := sh.Output(st.GoCmd(), "env", "GOBIN")
	if err != nil {
		return fmt.Errorf("determining GOBIN: %w", err)
	}
	if bin == "" {
		gopath, err := sh.Output(st.GoCmd(), "env", "GOPATH")
		if err != nil {
			return fmt.Errorf("determining GOPATH: %w", err)
		}
		bin = filepath.Join(gopath, "bin")
	}

	for _, name := range binaries {
		dst := filepath.Join(bin, name)
		if runtime.GOOS == "windows" {
			dst += ".exe"
		}
		if err := sh.Copy(dst, filepath.Join("bin", name)); err != nil {
			return fmt.Errorf("installing %s: %w", name, err)
		}
	}

	for name := range modelFiles {
		src := filepath.Join("bin", "model", name)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.MkdirAll(filepath.Join(bin, "model"), 0o755); err != nil {
			return err
		}
		if err := sh.Copy(filepath.Join(bin, "model", name), src); err != nil {
			return fmt.Errorf("installing %s: %w", name, err)
		}
	}
	return nil
}

// Pipeline runs a corpus through separate-lines and split-sentences:
// SGMLPREP_CORPUS is read, and text, markup and sentences are written next to
// it with .text, .markup and .sent suffixes.
func Pipeline() error {
	st.Deps(Build)

	corpus := os.Getenv("SGMLPREP_CORPUS")
	if corpus == "" {
		return fmt.Errorf("SGMLPREP_CORPUS is not set")
	}
	script := fmt.Sprintf(
		"bin/separate-lines %[1]s.markup < %[1]s > %[1]s.text && bin/split-sentences --model-dir %[2]s < %[1]s.text > %[1]s.sent",
		corpus, modelDir())
	return sh.RunV("sh", "-c", script)
}

// Bench namespace for evaluation targets.
type Bench st.Namespace

func modelDir() string {
	if dir := os.Getenv("SGMLPREP_MODEL_DIR"); dir != "" {
		return dir
	}
	return "testdata"
}

func goldDir() string {
	if dir := os.Getenv("SGMLPREP_GOLD"); dir != "" {
		return dir
	}
	return "testdata/gold"
}

// Run evaluates the SaT model against the gold corpus.
func (Bench) Run() error {
	st.Deps(Build_Eval)
	return sh.RunV("./bin/sbd-eval", "--model-dir", modelDir(), goldDir())
}

// Sweep searches SaT thresholds on the gold corpus.
func (Bench) Sweep() error {
	st.Deps(Build_Eval)
	return sh.RunV("./bin/sbd-eval", "--model-dir", modelDir(), "--sweep", goldDir())
}

// Compare evaluates every backend against the gold corpus.
func (Bench) Compare() error {
	st.Deps(Build_Eval)
	for _, backend := range []string{"rules", "punkt", "sat"} {
		fmt.Printf("== %s ==\n", backend)
		if err := sh.RunV("./bin/sbd-eval", "--backend", backend, "--model-dir", modelDir(), goldDir()); err != nil {
			return fmt.Errorf("%s: %w", backend, err)
		}
	}
	return nil
}

// Gold converts the UD English EWT test split into a gold file.
func (Bench) Gold() error {
	if err := os.MkdirAll(goldDir(), 0o755); err != nil {
		return err
	}
	out, err := sh.Output("go", "run", "./scripts/conllu-to-gold.go", "testdata/ud-ewt/en_ewt-ud-test.conllu")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(goldDir(), "ewt-test.txt"), []byte(out+"\n"), 0o644)
}
