package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

var headerRegex = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+)$`)

// splitStructure chunks by markdown headers: each header opens a section
// running until the next header or end of document. Chunk content is the
// header title concatenated with the section body, so offsets are
// best-effort rather than exact spans. Documents without headers fall back
// to the fixed strategy.
func splitStructure(doc domain.Document, cfg Config) ([]domain.Chunk, error) {
	text := doc.Content()
	headers := headerRegex.FindAllStringSubmatchIndex(text, -1)
	if len(headers) == 0 {
		return chunksFromSpans(doc, splitFixed(text, cfg)), nil
	}

	var chunks []domain.Chunk
	n := 0

	emit := func(title, body string, start, end int) {
		content := title
		switch {
		case title == "":
			content = body
		case body != "":
			content = title + "\n\n" + body
		}
		if content == "" {
			return
		}
		if cfg.MinChunkSize > 0 && len(content) < cfg.MinChunkSize {
			return
		}
		extra := map[string]string{}
		if title != "" {
			extra["section_title"] = title
		}
		chunks = append(chunks, domain.NewChunk(
			fmt.Sprintf("%s_section_%d", doc.ID(), n),
			doc.ID(),
			content,
			chunkMetadata(doc, extra),
			start,
			end,
			estimateTokens(content),
		))
		n++
	}

	// Preamble before the first header becomes its own section.
	if pre := strings.TrimSpace(text[:headers[0][0]]); pre != "" {
		emit("", pre, 0, headers[0][0])
	}

	for i, h := range headers {
		title := strings.TrimSpace(text[h[4]:h[5]])

		bodyStart := h[1]
		bodyEnd := len(text)
		if i+1 < len(headers) {
			bodyEnd = headers[i+1][0]
		}
		body := strings.TrimSpace(text[bodyStart:bodyEnd])

		emit(title, body, h[0], bodyEnd)
	}

	return chunks, nil
}
