package chunker

import "strings"

// splitSemantic groups blank-line-delimited paragraphs until appending the
// next paragraph would exceed ChunkSize. This approximates semantic grouping
// by proximity; it is not embedding-similarity clustering.
func splitSemantic(text string, cfg Config) []span {
	const parSep = "\n\n"

	var spans []span
	bufStart := -1
	bufEnd := 0

	flush := func() {
		if bufStart < 0 {
			return
		}
		if cfg.MinChunkSize > 0 && bufEnd-bufStart < cfg.MinChunkSize {
			bufStart = -1
			return
		}
		spans = append(spans, span{start: bufStart, end: bufEnd})
		bufStart = -1
	}

	pos := 0
	for pos < len(text) {
		idx := strings.Index(text[pos:], parSep)
		var parEnd int
		if idx < 0 {
			parEnd = len(text)
		} else {
			parEnd = pos + idx
		}

		parStart := pos
		// Trim the paragraph to its non-blank body.
		for parStart < parEnd && (text[parStart] == '\n' || text[parStart] == ' ' || text[parStart] == '\t') {
			parStart++
		}

		if parStart < parEnd {
			if bufStart >= 0 && (parEnd-bufStart) > cfg.ChunkSize {
				flush()
			}
			if bufStart < 0 {
				bufStart = parStart
			}
			bufEnd = parEnd
		}

		if idx < 0 {
			break
		}
		pos = parEnd + len(parSep)
	}
	flush()

	return spans
}
