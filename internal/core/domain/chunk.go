package domain

// Chunk is a unit of indexed content. The full set of chunks for an item is
// always replaced as a unit; chunks are never partially updated.
type Chunk struct {
	// ID is the unique identifier for the chunk row.
	ID string

	// SourceItemID links to the RemoteItem that produced this chunk.
	SourceItemID string

	// Position is the 0-based position within the item's chunk list.
	Position int

	// Content is the chunk text.
	Content string

	// Embedding is the vector representation. Owned by the index once
	// inserted.
	Embedding []float32
}

// ScoredChunk pairs a chunk with its similarity score for a query.
type ScoredChunk struct {
	Chunk Chunk

	// Score is cosine similarity in [-1, 1]; higher is closer.
	Score float64
}
