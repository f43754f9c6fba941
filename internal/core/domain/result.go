package domain

import "fmt"

// SyncMode selects the synchronisation strategy for a cycle.
type SyncMode int

const (
	// ModeDelta applies only changes since the stored cursor. Falls back
	// to ModeFull when no valid cursor exists.
	ModeDelta SyncMode = iota

	// ModeFull clears the index, discards the cursor and re-enumerates
	// the entire corpus.
	ModeFull
)

// String returns the mode name for logging.
func (m SyncMode) String() string {
	switch m {
	case ModeDelta:
		return "delta"
	case ModeFull:
		return "full"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// SyncCycleResult aggregates the outcome of one sync cycle (or one page,
// before merging). Counts are per item, not per chunk.
type SyncCycleResult struct {
	// Added is the number of items indexed for the first time.
	Added int

	// Updated is the number of items whose chunk set was replaced.
	Updated int

	// Deleted is the number of items whose chunks were removed.
	Deleted int

	// Skipped is the number of items ignored (unsupported content type).
	Skipped int

	// Failed is the number of items whose fetch/chunk/index step failed.
	// Any failure withholds the page's cursor.
	Failed int
}

// Merge adds another result's counts into r.
func (r *SyncCycleResult) Merge(other SyncCycleResult) {
	r.Added += other.Added
	r.Updated += other.Updated
	r.Deleted += other.Deleted
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

// Processed returns the number of items that changed the index.
func (r SyncCycleResult) Processed() int {
	return r.Added + r.Updated + r.Deleted
}

// String formats the result for operator output.
func (r SyncCycleResult) String() string {
	return fmt.Sprintf("added=%d updated=%d deleted=%d skipped=%d failed=%d",
		r.Added, r.Updated, r.Deleted, r.Skipped, r.Failed)
}
