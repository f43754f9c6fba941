package driven

import "context"

// ChunkIndex is the reconciliation-facing view over the vector store.
// It must tolerate concurrent writers for distinct source item IDs and
// concurrent readers during writes.
type ChunkIndex interface {
	// DeleteBySourceID removes all chunks for the item and returns the
	// number removed. Succeeds with count 0 for unknown items; idempotent.
	DeleteBySourceID(ctx context.Context, itemID string) (int, error)

	// InsertChunks embeds and stores the ordered chunk texts under itemID.
	// The caller must have deleted any prior chunks for the item first.
	// Returns domain.ErrEmbedding (wrapped) on embedding failure.
	InsertChunks(ctx context.Context, itemID string, texts []string) error

	// Count returns the total number of chunks in the index.
	Count(ctx context.Context) (int, error)

	// CountBySourceID returns the number of chunks stored for one item.
	CountBySourceID(ctx context.Context, itemID string) (int, error)

	// Clear removes all chunks unconditionally. Used by full resync only.
	Clear(ctx context.Context) error
}
