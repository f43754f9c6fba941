package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
	"github.com/rivergate-labs/chunksync/internal/core/ports/driven"
	"github.com/rivergate-labs/chunksync/internal/logger"
)

// DefaultWorkers is the default number of concurrent item upserts.
const DefaultWorkers = 4

// Reconciler applies one change page at a time to the chunk index and
// commits the page's cursor only after the page is fully applied.
type Reconciler struct {
	fetcher  driven.ContentFetcher
	chunkers driven.ChunkerRegistry
	index    driven.ChunkIndex
	cursors  driven.CursorStore
	workers  int
}

// NewReconciler creates a reconciler. workers bounds concurrent upserts;
// values below 1 fall back to DefaultWorkers.
func NewReconciler(
	fetcher driven.ContentFetcher,
	chunkers driven.ChunkerRegistry,
	index driven.ChunkIndex,
	cursors driven.CursorStore,
	workers int,
) *Reconciler {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Reconciler{
		fetcher:  fetcher,
		chunkers: chunkers,
		index:    index,
		cursors:  cursors,
		workers:  workers,
	}
}

// ApplyPage applies a single change page to the index.
//
// Deletes are applied first, sequentially: a later upsert for the same ID in
// another page can then never collide with stale chunks, and deletions become
// visible to readers as early as possible. Upserts run on a bounded worker
// pool; each one is delete-then-insert so a crashed or retried page never
// produces duplicate chunks.
//
// The page's cursor is persisted only when every record applied cleanly.
// A page with any failed item keeps the previous cursor and is retried
// wholesale on the next cycle. A cursor persistence failure is returned as
// an error and aborts the cycle.
func (r *Reconciler) ApplyPage(ctx context.Context, page *domain.ChangePage) (domain.SyncCycleResult, error) {
	var result domain.SyncCycleResult

	page.Dedupe()

	var deletes, upserts []domain.ChangeRecord
	for _, rec := range page.Records {
		if rec.Deleted {
			deletes = append(deletes, rec)
		} else {
			upserts = append(upserts, rec)
		}
	}

	for _, rec := range deletes {
		n, err := r.index.DeleteBySourceID(ctx, rec.ItemID)
		if err != nil {
			logger.Warn("delete %s failed: %v", rec.ItemID, err)
			result.Failed++
			continue
		}
		result.Deleted++
		logger.Debug("deleted item %s (%d chunks)", rec.ItemID, n)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, rec := range upserts {
		// On cancellation let in-flight items finish but start no more.
		if gctx.Err() != nil {
			break
		}
		rec := rec
		g.Go(func() error {
			outcome := r.applyUpsert(gctx, rec.Item)
			mu.Lock()
			result.Merge(outcome)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		// Interrupted page: cursor stays at its last good value.
		return result, err
	}

	if result.Failed > 0 {
		logger.Warn("page had %d failed items; cursor withheld", result.Failed)
		return result, nil
	}

	cursor := domain.SyncCursor{Token: page.NextCursor, UpdatedAt: time.Now().UTC()}
	if err := r.cursors.Save(cursor); err != nil {
		return result, fmt.Errorf("save cursor: %w", err)
	}
	return result, nil
}

// applyUpsert runs the fetch -> chunk -> delete -> insert pipeline for one
// item. Failures are recorded in the returned result, never propagated: an
// item failure must not abort the page.
func (r *Reconciler) applyUpsert(ctx context.Context, item *domain.RemoteItem) domain.SyncCycleResult {
	var result domain.SyncCycleResult

	data, fetchedType, err := r.fetcher.Fetch(ctx, item.ID)
	if err != nil {
		logger.Warn("fetch %s (%s) failed: %v", item.ID, item.Name, err)
		result.Failed++
		return result
	}

	contentType := item.ContentType
	if contentType == "" {
		contentType = fetchedType
	}
	chunker, ok := r.chunkers.Resolve(contentType)
	if !ok {
		logger.Debug("skipping %s: unsupported content type %q", item.Name, contentType)
		result.Skipped++
		return result
	}

	texts, err := chunker.Chunk(ctx, data, item)
	if err != nil {
		logger.Warn("chunk %s failed: %v", item.Name, err)
		result.Failed++
		return result
	}

	// Delete-then-insert, even for never-indexed items. The delete is an
	// idempotent no-op then, and a retried page re-deletes and re-inserts
	// the same content instead of duplicating it.
	prior, err := r.index.DeleteBySourceID(ctx, item.ID)
	if err != nil {
		logger.Warn("replace %s: delete failed: %v", item.ID, err)
		result.Failed++
		return result
	}
	if len(texts) > 0 {
		if err := r.index.InsertChunks(ctx, item.ID, texts); err != nil {
			logger.Warn("insert %s failed: %v", item.ID, err)
			result.Failed++
			return result
		}
	}

	if prior > 0 {
		result.Updated++
	} else {
		result.Added++
	}
	logger.Debug("indexed %s: %d chunks (replaced %d)", item.Name, len(texts), prior)
	return result
}
