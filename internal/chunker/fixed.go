package chunker

// splitFixed slides a window of ChunkSize characters across the text,
// advancing by ChunkSize-Overlap each step. The last window may be shorter.
func splitFixed(text string, cfg Config) []span {
	step := cfg.ChunkSize - cfg.Overlap

	var spans []span
	for start := 0; start < len(text); start += step {
		end := start + cfg.ChunkSize
		if end > len(text) {
			end = len(text)
		}
		spans = append(spans, span{start: start, end: end})
		if end == len(text) {
			break
		}
	}
	return spans
}
