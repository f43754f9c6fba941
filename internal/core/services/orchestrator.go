package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
	"github.com/rivergate-labs/chunksync/internal/core/ports/driven"
	"github.com/rivergate-labs/chunksync/internal/core/ports/driving"
	"github.com/rivergate-labs/chunksync/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.SyncOrchestrator = (*Orchestrator)(nil)

// Orchestrator owns the single-flight cycle lock and drives full or delta
// synchronisation of the chunk index against the remote change feed.
type Orchestrator struct {
	feed       driven.ChangeFeed
	cursors    driven.CursorStore
	index      driven.ChunkIndex
	reconciler *Reconciler
	signal     *IndexSignal

	cycleMu sync.Mutex
	runMu   sync.Mutex
	running bool
}

// NewOrchestrator creates an orchestrator with injected collaborators.
// signal may be nil when no read-side caches need invalidation.
func NewOrchestrator(
	feed driven.ChangeFeed,
	cursors driven.CursorStore,
	index driven.ChunkIndex,
	reconciler *Reconciler,
	signal *IndexSignal,
) *Orchestrator {
	return &Orchestrator{
		feed:       feed,
		cursors:    cursors,
		index:      index,
		reconciler: reconciler,
		signal:     signal,
	}
}

// Running reports whether a cycle is currently active.
func (o *Orchestrator) Running() bool {
	o.runMu.Lock()
	defer o.runMu.Unlock()
	return o.running
}

func (o *Orchestrator) setRunning(v bool) {
	o.runMu.Lock()
	o.running = v
	o.runMu.Unlock()
}

// RunCycle performs one sync cycle. A request while another cycle holds the
// lock is rejected immediately with domain.ErrSyncInProgress.
func (o *Orchestrator) RunCycle(ctx context.Context, mode domain.SyncMode) (*domain.SyncCycleResult, error) {
	if !o.cycleMu.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer o.cycleMu.Unlock()

	o.setRunning(true)
	defer o.setRunning(false)

	logger.Info("starting %s sync cycle", mode)

	result, err := o.runLocked(ctx, mode)
	if err != nil {
		return result, err
	}

	if result.Processed() > 0 && o.signal != nil {
		o.signal.Bump()
	}
	logger.Info("sync cycle complete: %s", result)
	return result, nil
}

// runLocked executes a cycle while the cycle lock is held.
func (o *Orchestrator) runLocked(ctx context.Context, mode domain.SyncMode) (*domain.SyncCycleResult, error) {
	total := &domain.SyncCycleResult{}

	var cursor *domain.SyncCursor
	if mode == domain.ModeDelta {
		loaded, err := o.cursors.Load()
		if err != nil {
			return total, fmt.Errorf("load cursor: %w", err)
		}
		if loaded == nil {
			logger.Info("no stored cursor; falling back to full sync")
			mode = domain.ModeFull
		} else {
			cursor = loaded
		}
	}

	if mode == domain.ModeFull {
		if err := o.prepareFull(ctx); err != nil {
			return total, err
		}
		cursor = nil
	}

	session, err := o.feed.Open(ctx, cursor)
	if errors.Is(err, domain.ErrCursorExpired) && cursor != nil {
		// Remote rejected the stored cursor. Recover locally with a full
		// resync; not surfaced as a cycle failure.
		logger.Warn("stored cursor rejected by remote; falling back to full sync")
		if err := o.prepareFull(ctx); err != nil {
			return total, err
		}
		session, err = o.feed.Open(ctx, nil)
	}
	if err != nil {
		return total, fmt.Errorf("open change feed: %w", err)
	}

	for {
		page, err := session.Next(ctx)
		if err != nil {
			return total, fmt.Errorf("next page: %w", err)
		}

		pageResult, err := o.reconciler.ApplyPage(ctx, page)
		total.Merge(pageResult)
		if err != nil {
			return total, err
		}
		if pageResult.Failed > 0 {
			// The failed page's cursor was withheld. Stop here so the
			// next cycle retries it; later pages must not advance the
			// cursor past unapplied work.
			return total, nil
		}
		if !page.HasMore {
			return total, nil
		}
	}
}

// prepareFull clears the index and discards the stored cursor ahead of a
// full enumeration.
func (o *Orchestrator) prepareFull(ctx context.Context) error {
	if err := o.index.Clear(ctx); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	if err := o.cursors.Clear(); err != nil {
		return fmt.Errorf("clear cursor: %w", err)
	}
	return nil
}
