// Package chunkers provides the content-type keyed chunking strategies used
// during reconciliation. The registry is populated once at wiring time;
// adding a format means registering a new strategy, not branching on type
// tags at call sites.
package chunkers

import (
	"mime"
	"strings"

	"github.com/rivergate-labs/chunksync/internal/core/ports/driven"
)

// Default chunking geometry.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// Ensure Registry implements the interface.
var _ driven.ChunkerRegistry = (*Registry)(nil)

// Registry maps normalised content types to chunking strategies.
type Registry struct {
	byType map[string]driven.Chunker
}

// NewRegistry creates a registry with the plaintext and markdown strategies
// registered. chunkSize and overlap are in runes; non-positive values fall
// back to the defaults.
func NewRegistry(chunkSize, overlap int) *Registry {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 5
	}

	r := &Registry{byType: make(map[string]driven.Chunker)}
	r.Register(NewPlainText(chunkSize, overlap))
	r.Register(NewMarkdown(chunkSize, overlap))
	return r
}

// Register adds a chunker for all content types it declares, replacing any
// previous registration for those types.
func (r *Registry) Register(c driven.Chunker) {
	for _, ct := range c.ContentTypes() {
		r.byType[normalise(ct)] = c
	}
}

// Resolve returns the chunker for a content type, or false if the type is
// unsupported. Parameters like charset are ignored.
func (r *Registry) Resolve(contentType string) (driven.Chunker, bool) {
	c, ok := r.byType[normalise(contentType)]
	return c, ok
}

func normalise(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
