//go:build ignore

// Convert Universal Dependencies CoNLL-U files into sbd-eval gold files:
// one sentence per line, a blank line wherever the treebank starts a new
// paragraph or document.
// Usage: go run ./scripts/conllu-to-gold.go testdata/ud-ewt/en_ewt-ud-test.conllu > testdata/gold/ewt-test.txt
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: go run ./scripts/conllu-to-gold.go FILE.conllu... > gold.txt")
		os.Exit(1)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	var total, paragraphs int
	for _, path := range os.Args[1:] {
		n, p, err := convert(path, out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", path, err)
			os.Exit(1)
		}
		total += n
		paragraphs += p
	}

	fmt.Fprintf(os.Stderr, "%d sentences in %d paragraphs\n", total, paragraphs)
}

func convert(path string, w io.Writer) (sentences, paragraphs int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()

		// Paragraph and document markers precede the first sentence they cover
		if strings.HasPrefix(line, "# newpar") || strings.HasPrefix(line, "# newdoc") {
			if sentences > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return sentences, paragraphs, err
				}
			}
			paragraphs++
			continue
		}

		if text, ok := strings.CutPrefix(line, "# text = "); ok {
			text = strings.Join(strings.Fields(text), " ")
			if text == "" {
				continue
			}
			if paragraphs == 0 {
				paragraphs++
			}
			if _, err := io.WriteString(w, text+"\n"); err != nil {
				return sentences, paragraphs, err
			}
			sentences++
		}
	}

	if err := scanner.Err(); err != nil {
		return sentences, paragraphs, fmt.Errorf("scanning file: %w", err)
	}
	return sentences, paragraphs, nil
}
