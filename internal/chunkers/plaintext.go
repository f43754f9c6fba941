package chunkers

import (
	"context"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
	"github.com/rivergate-labs/chunksync/internal/core/ports/driven"
)

// Ensure PlainText implements the interface.
var _ driven.Chunker = (*PlainText)(nil)

// PlainText chunks plain text content into overlapping windows.
type PlainText struct {
	size    int
	overlap int
}

// NewPlainText creates a plain text chunker.
func NewPlainText(size, overlap int) *PlainText {
	return &PlainText{size: size, overlap: overlap}
}

// ContentTypes returns the MIME types this chunker handles.
func (p *PlainText) ContentTypes() []string {
	return []string{"text/plain", "text/csv", "application/json"}
}

// Chunk splits the content into ordered chunk texts, each prefixed with the
// document header.
func (p *PlainText) Chunk(_ context.Context, data []byte, item *domain.RemoteItem) ([]string, error) {
	parts := splitText(string(data), p.size, p.overlap)
	header := docHeader(item)
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = header + part
	}
	return out, nil
}
