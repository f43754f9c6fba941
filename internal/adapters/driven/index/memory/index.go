// Package memory provides an in-memory chunk index. It is used by tests and
// by ephemeral runs that do not need persistence.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
	"github.com/rivergate-labs/chunksync/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.ChunkIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.ChunkIndex.
// Safe for concurrent use.
type Index struct {
	mu     sync.RWMutex
	byItem map[string][]domain.Chunk
}

// NewIndex creates an empty in-memory chunk index.
func NewIndex() *Index {
	return &Index{byItem: make(map[string][]domain.Chunk)}
}

// DeleteBySourceID removes all chunks for the item.
func (x *Index) DeleteBySourceID(_ context.Context, itemID string) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	n := len(x.byItem[itemID])
	delete(x.byItem, itemID)
	return n, nil
}

// InsertChunks stores the ordered chunk texts under itemID.
func (x *Index) InsertChunks(_ context.Context, itemID string, texts []string) error {
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID:           uuid.New().String(),
			SourceItemID: itemID,
			Position:     i,
			Content:      text,
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.byItem[itemID] = chunks
	return nil
}

// Count returns the total number of chunks.
func (x *Index) Count(_ context.Context) (int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	total := 0
	for _, chunks := range x.byItem {
		total += len(chunks)
	}
	return total, nil
}

// CountBySourceID returns the number of chunks stored for one item.
func (x *Index) CountBySourceID(_ context.Context, itemID string) (int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byItem[itemID]), nil
}

// Clear removes all chunks.
func (x *Index) Clear(_ context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.byItem = make(map[string][]domain.Chunk)
	return nil
}

// Chunks returns a copy of the chunks stored for an item, in order.
// Test helper; not part of the ChunkIndex port.
func (x *Index) Chunks(itemID string) []domain.Chunk {
	x.mu.RLock()
	defer x.mu.RUnlock()

	chunks := x.byItem[itemID]
	out := make([]domain.Chunk, len(chunks))
	copy(out, chunks)
	return out
}
