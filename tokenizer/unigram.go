package tokenizer

const negInf = -1e9

// EncodeIDs returns HuggingFace-compatible token IDs for the input text.
func (t *Tokenizer) EncodeIDs(text string) []int32 {
	tokens := t.Encode(text)
	ids := make([]int32, len(tokens))
	for i, tok := range tokens {
		ids[i] = tok.ID
	}
	return ids
}

// Encode tokenizes text using Viterbi algorithm, returning tokens with byte
// offsets into text.
func (t *Tokenizer) Encode(text string) []TokenInfo {
	if text == "" {
		return nil
	}

	norm := normalize(text, t.normOpts)
	runes := norm.runes
	n := len(runes)
	if n == 0 {
		return nil
	}

	// best[i] = best log probability to tokenize runes[0:i]
	best := make([]float64, n+1)
	// parent[i] = start position of the token ending at position i
	parent := make([]int, n+1)
	// known[i] = the token ending at position i is in the vocabulary
	known := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		best[i] = negInf
		parent[i] = -1
	}

	for i := 1; i <= n; i++ {
		maxLen := t.maxTokenLen
		if maxLen > i {
			maxLen = i
		}

		for length := 1; length <= maxLen; length++ {
			j := i - length
			score, exists := t.scores[string(runes[j:i])]
			if !exists {
				continue
			}

			candidate := best[j] + float64(score)
			if candidate > best[i] {
				best[i] = candidate
				parent[i] = j
				known[i] = true
			}
		}

		// No piece ends here: emit the single rune as <unk>.
		if best[i] == negInf {
			best[i] = best[i-1] + float64(t.unkScore)
			parent[i] = i - 1
		}
	}

	var tokens []TokenInfo
	for pos := n; pos > 0; {
		start := parent[pos]
		piece := string(runes[start:pos])

		id := unkID
		if known[pos] {
			id = t.spIndexToHFID(t.pieces[piece])
		}

		tokens = append(tokens, TokenInfo{
			ID:    id,
			Text:  piece,
			Start: norm.start[start],
			End:   norm.end[pos-1],
		})
		pos = start
	}

	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}

	return tokens
}
