package driven

import "github.com/rivergate-labs/chunksync/internal/core/domain"

// CursorStore persists the opaque sync cursor.
type CursorStore interface {
	// Load returns the stored cursor, or nil if none exists. A missing or
	// corrupt cursor is not an error: absence is the normal trigger for a
	// full resync. Storage faults are returned as errors.
	Load() (*domain.SyncCursor, error)

	// Save persists the cursor atomically with respect to process crash.
	// A reader must never observe a partially written cursor.
	Save(cursor domain.SyncCursor) error

	// Clear removes the stored cursor. Missing cursor is not an error.
	Clear() error
}
