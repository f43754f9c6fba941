package driven

import (
	"context"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
)

// Chunker converts raw item content into an ordered list of chunk texts.
// Implementations are deterministic for identical input.
type Chunker interface {
	// ContentTypes returns the MIME types this chunker handles.
	ContentTypes() []string

	// Chunk splits the content into ordered chunk texts. The item is
	// provided for metadata enrichment (name, folder path).
	Chunk(ctx context.Context, data []byte, item *domain.RemoteItem) ([]string, error)
}

// ChunkerRegistry resolves a chunking strategy for a content type.
// The registry is populated once at wiring time.
type ChunkerRegistry interface {
	// Resolve returns the chunker registered for the content type, or
	// false if the type is unsupported.
	Resolve(contentType string) (Chunker, bool)
}
