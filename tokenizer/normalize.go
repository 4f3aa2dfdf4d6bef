package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const sentencePieceSpace = '▁' // U+2581 LOWER ONE EIGHTH BLOCK

// normalized is normalizer output with every rune mapped back to the byte
// range of the original text it came from.
type normalized struct {
	runes []rune
	start []int
	end   []int
}

func (n normalized) String() string {
	return string(n.runes)
}

type normalizeOptions struct {
	nfkc        bool
	dummyPrefix bool
}

// normalize prepares text for tokenization following XLM-RoBERTa conventions:
// NFKC per rune, whitespace runs collapsed to a single ▁, trailing whitespace
// dropped and an optional ▁ dummy prefix.
//
// An inserted ▁ is zero-width and sits at the start of the rune that follows it.
func normalize(text string, opts normalizeOptions) normalized {
	var n normalized
	if text == "" {
		return n
	}

	needSpace := opts.dummyPrefix
	emit := func(r rune, start, end int) {
		if unicode.IsSpace(r) {
			if len(n.runes) > 0 {
				needSpace = true
			}
			return
		}
		if needSpace {
			n.runes = append(n.runes, sentencePieceSpace)
			n.start = append(n.start, start)
			n.end = append(n.end, start)
			needSpace = false
		}
		n.runes = append(n.runes, r)
		n.start = append(n.start, start)
		n.end = append(n.end, end)
	}

	for i, r := range text {
		end := i + utf8.RuneLen(r)
		if r == utf8.RuneError {
			end = i + 1
		}
		if !opts.nfkc || r < utf8.RuneSelf {
			emit(r, i, end)
			continue
		}
		for _, nr := range norm.NFKC.String(string(r)) {
			emit(nr, i, end)
		}
	}

	return n
}

// usesNFKC reports whether a SentencePiece normalizer rule name applies NFKC.
func usesNFKC(name string) bool {
	return name == "" || strings.Contains(strings.ToLower(name), "nfkc")
}
