package domain

import (
	"fmt"
	"regexp"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxContentSize is the maximum document content size in bytes.
const MaxContentSize = 1 << 20 // 1MB

// Document is a unit of ingested content (immutable value object).
type Document struct {
	id       string
	content  string
	metadata map[string]string
	source   string
}

// NewDocument validates and creates a Document.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Content: non-empty, max 1MB.
func NewDocument(id, content, source string, metadata map[string]string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required: %w", ErrInvalidDocument)
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256): %w", ErrInvalidDocument)
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf(
			"document ID must be alphanumeric with underscores and hyphens: %w", ErrInvalidDocument)
	}
	if content == "" {
		return Document{}, fmt.Errorf("content is required: %w", ErrInvalidDocument)
	}
	if len(content) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes): %w", MaxContentSize, ErrInvalidDocument)
	}

	return Document{
		id:       id,
		content:  content,
		metadata: cloneStringMap(metadata),
		source:   source,
	}, nil
}

// ReconstructDocument creates a Document without validation (test hydration).
func ReconstructDocument(id, content, source string, metadata map[string]string) Document {
	return Document{id: id, content: content, metadata: metadata, source: source}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Content returns the full document text.
func (d *Document) Content() string { return d.content }

// Metadata returns the free-form metadata mapping.
func (d *Document) Metadata() map[string]string { return d.metadata }

// Source returns the origin URI or label.
func (d *Document) Source() string { return d.source }

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
