package chunker

import "strings"

// splitRecursive splits on an ordered separator list, coarsest to finest.
// At each level parts are greedily accumulated up to ChunkSize; a flushed
// piece that still exceeds ChunkSize descends to the next separator level.
// Implemented as an explicit worklist to bound stack depth on pathological
// inputs (e.g. a single multi-megabyte line with no separators).
//
// Separators stay attached to the preceding part, so concatenating the
// resulting spans reconstructs the original text.
func splitRecursive(text string, cfg Config) []span {
	seps := cfg.separators()

	type frame struct {
		start  int
		end    int
		sepIdx int
	}

	var spans []span
	stack := []frame{{start: 0, end: len(text), sepIdx: 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.end-f.start <= cfg.ChunkSize || f.sepIdx >= len(seps) {
			spans = append(spans, span{start: f.start, end: f.end})
			continue
		}

		sep := seps[f.sepIdx]
		if sep == "" {
			// Final level: hard cut every ChunkSize characters.
			for i := f.start; i < f.end; i += cfg.ChunkSize {
				end := i + cfg.ChunkSize
				if end > f.end {
					end = f.end
				}
				spans = append(spans, span{start: i, end: end})
			}
			continue
		}

		pieces := accumulate(text, f.start, f.end, sep, cfg.ChunkSize)

		// Push in reverse so pieces pop in document order. Pieces at or
		// under ChunkSize emit immediately on pop; oversized ones descend.
		for i := len(pieces) - 1; i >= 0; i-- {
			stack = append(stack, frame{start: pieces[i].start, end: pieces[i].end, sepIdx: f.sepIdx + 1})
		}
	}

	return spans
}

// accumulate splits text[start:end] after each occurrence of sep and greedily
// merges consecutive parts into pieces no larger than limit where possible.
// A single part larger than limit becomes its own piece.
func accumulate(text string, start, end int, sep string, limit int) []span {
	var pieces []span

	bufStart := start
	bufLen := 0

	pos := start
	for pos < end {
		idx := strings.Index(text[pos:end], sep)
		var partEnd int
		if idx < 0 {
			partEnd = end
		} else {
			partEnd = pos + idx + len(sep)
		}
		partLen := partEnd - pos

		if bufLen > 0 && bufLen+partLen > limit {
			pieces = append(pieces, span{start: bufStart, end: bufStart + bufLen})
			bufStart += bufLen
			bufLen = 0
		}
		bufLen += partLen
		pos = partEnd
	}

	if bufLen > 0 {
		pieces = append(pieces, span{start: bufStart, end: bufStart + bufLen})
	}
	return pieces
}
