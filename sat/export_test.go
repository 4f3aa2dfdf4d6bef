package sat

// withChunking overrides the chunk geometry so short texts are chunked.
func withChunking(seqLen, overlap int) Option {
	return func(c *config) {
		if seqLen-2 > overlap && overlap >= 0 {
			c.seqLen = seqLen
			c.overlap = overlap
		}
	}
}
