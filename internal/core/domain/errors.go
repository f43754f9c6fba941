package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCursorExpired indicates the remote no longer accepts the stored
	// sync cursor. Recovered locally by falling back to a full sync.
	ErrCursorExpired = errors.New("sync cursor expired")

	// ErrSyncInProgress indicates a sync cycle is already running.
	// Cycle requests are rejected, never queued.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrFeedExhausted indicates Next was called on a fully consumed
	// feed session.
	ErrFeedExhausted = errors.New("change feed session exhausted")

	// ErrTransient indicates a temporary remote failure (network, auth,
	// rate limit). The owning item is marked failed and the page is
	// retried wholesale on the next cycle.
	ErrTransient = errors.New("transient remote error")

	// ErrRateLimited indicates the remote API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmbedding indicates the embedding service failed for a batch of
	// chunk texts. Treated like ErrTransient for the owning item.
	ErrEmbedding = errors.New("embedding failed")

	// ErrUnsupportedType indicates no chunking strategy is registered for
	// a content type. Items of unsupported types are skipped, not failed.
	ErrUnsupportedType = errors.New("unsupported content type")
)
