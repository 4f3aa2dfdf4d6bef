package sgmlprep

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Kind classifies an input line.
type Kind int

const (
	// KindPlain is natural-language text.
	KindPlain Kind = iota
	// KindMarkup starts with the markup marker.
	KindMarkup
	// KindOverlong has more whitespace-separated tokens than the limit.
	KindOverlong
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindMarkup:
		return "markup"
	case KindOverlong:
		return "overlong"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Classify reports whether line is markup, overlong or plain.
// The marker is matched against the raw line; leading whitespace is not skipped.
func Classify(line, marker string, maxTokens int) Kind {
	if strings.HasPrefix(line, marker) {
		return KindMarkup
	}
	if countTokens(line) > maxTokens {
		return KindOverlong
	}
	return KindPlain
}

// NormalizeSpace collapses runs of whitespace to single spaces and trims both ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// countTokens counts whitespace-separated tokens without allocating.
func countTokens(s string) int {
	n := 0
	inToken := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inToken = false
			continue
		}
		if !inToken {
			n++
			inToken = true
		}
	}
	return n
}

// newLineScanner returns a scanner yielding lines without their terminators.
func newLineScanner(r io.Reader, maxLineBytes int) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	initial := 64 * 1024
	if initial > maxLineBytes {
		initial = maxLineBytes
	}
	sc.Buffer(make([]byte, initial), maxLineBytes)
	return sc
}

func scanError(err error) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return fmt.Errorf("%w: %w", ErrLineTooLong, err)
	}
	return fmt.Errorf("reading input: %w", err)
}
