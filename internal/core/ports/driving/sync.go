package driving

import (
	"context"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
)

// SyncOrchestrator runs synchronisation cycles against the chunk index.
type SyncOrchestrator interface {
	// RunCycle performs one sync cycle in the given mode. At most one
	// cycle runs at a time; a request while a cycle is active returns
	// domain.ErrSyncInProgress immediately without queueing.
	//
	// Item-level failures do not produce an error; they are reflected in
	// the result's Failed count and withhold the failing page's cursor.
	RunCycle(ctx context.Context, mode domain.SyncMode) (*domain.SyncCycleResult, error)

	// Running reports whether a cycle is currently active.
	Running() bool
}
