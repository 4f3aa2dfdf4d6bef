// Package bench evaluates sentence boundary models against gold segmentations.
package bench

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	sgmlprep "github.com/jamesainslie/go-sgmlprep"
)

// Header contains metadata from the "# Key: value" comment lines that may
// open a gold file.
type Header struct {
	Source string
	Title  string
}

// Sentence represents a gold sentence with byte offsets into its paragraph.
type Sentence struct {
	Text  string
	Start int
	End   int
}

// Paragraph is a run of gold sentences joined by single spaces.
type Paragraph struct {
	Text      string
	Sentences []Sentence
}

// Boundaries returns the end offset of every gold sentence.
func (p Paragraph) Boundaries() []int {
	out := make([]int, len(p.Sentences))
	for i, s := range p.Sentences {
		out[i] = s.End
	}
	return out
}

// Document is a loaded gold file.
type Document struct {
	ID         string // file name without extension
	Header     Header
	Paragraphs []Paragraph
}

// ParseGold reads a gold segmentation: one sentence per line, paragraphs
// separated by blank lines. Lines starting with marker are treated like blank
// lines, so sentence splitter output can serve as gold data directly.
func ParseGold(r io.Reader, marker string) (Header, []Paragraph, error) {
	var (
		h          Header
		paragraphs []Paragraph
		current    []string
		inHeader   = true
	)

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, newParagraph(current))
			current = nil
		}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), sgmlprep.DefaultMaxLineBytes)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		if inHeader && strings.HasPrefix(line, "#") {
			parseHeaderLine(&h, line)
			continue
		}
		inHeader = false

		if line == "" || (marker != "" && strings.HasPrefix(line, marker)) {
			flush()
			continue
		}
		current = append(current, sgmlprep.NormalizeSpace(line))
	}
	if err := sc.Err(); err != nil {
		return Header{}, nil, fmt.Errorf("scan gold: %w", err)
	}
	flush()

	return h, paragraphs, nil
}

func parseHeaderLine(h *Header, line string) {
	line = strings.TrimSpace(strings.TrimPrefix(line, "#"))
	if value, ok := strings.CutPrefix(line, "Source:"); ok {
		h.Source = strings.TrimSpace(value)
	} else if value, ok := strings.CutPrefix(line, "Title:"); ok {
		h.Title = strings.TrimSpace(value)
	}
}

func newParagraph(sentences []string) Paragraph {
	p := Paragraph{
		Text:      strings.Join(sentences, " "),
		Sentences: make([]Sentence, len(sentences)),
	}
	start := 0
	for i, s := range sentences {
		p.Sentences[i] = Sentence{Text: s, Start: start, End: start + len(s)}
		start += len(s) + 1
	}
	return p
}

// LoadGold loads and parses a gold file. Gzip and xz files are decompressed.
func LoadGold(path, marker string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gold: %w", err)
	}
	defer func() { _ = f.Close() }()

	in, err := sgmlprep.OpenInput(f, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	header, paragraphs, err := ParseGold(in, marker)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	base := filepath.Base(path)
	return &Document{
		ID:         strings.TrimSuffix(base, filepath.Ext(base)),
		Header:     header,
		Paragraphs: paragraphs,
	}, nil
}

// LoadCorpus loads every .txt, .gz and .xz gold file in dir.
func LoadCorpus(dir, marker string) ([]*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var docs []*Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".txt", ".gz", ".xz":
		default:
			continue
		}

		doc, err := LoadGold(filepath.Join(dir, entry.Name()), marker)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
