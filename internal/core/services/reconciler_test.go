package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivergate-labs/chunksync/internal/adapters/driven/index/memory"
	"github.com/rivergate-labs/chunksync/internal/core/domain"
)

func upsert(id, name string) domain.ChangeRecord {
	return domain.ChangeRecord{
		ItemID: id,
		Item: &domain.RemoteItem{
			ID:          id,
			Name:        name,
			ContentType: "text/plain",
		},
	}
}

func deletion(id string) domain.ChangeRecord {
	return domain.ChangeRecord{ItemID: id, Deleted: true}
}

func newTestReconciler(fetcher *mockFetcher, cursors *mockCursorStore, idx *memory.Index) *Reconciler {
	return NewReconciler(fetcher, &mockRegistry{chunker: &lineChunker{}}, idx, cursors, 4)
}

func TestReconciler_ApplyPage_DeletesAndUpserts(t *testing.T) {
	ctx := context.Background()
	idx := memory.NewIndex()
	cursors := &mockCursorStore{}

	// Pre-existing corpus: A has 2 chunks, B has 3.
	require.NoError(t, idx.InsertChunks(ctx, "A", []string{"a1", "a2"}))
	require.NoError(t, idx.InsertChunks(ctx, "B", []string{"b1", "b2", "b3"}))

	fetcher := &mockFetcher{content: map[string]string{"C": "c1"}}
	r := newTestReconciler(fetcher, cursors, idx)

	page := &domain.ChangePage{
		Records:    []domain.ChangeRecord{deletion("A"), upsert("C", "c.txt")},
		NextCursor: "cursor-1",
	}

	result, err := r.ApplyPage(ctx, page)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 0, result.Failed)

	total, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, total, "B's 3 chunks plus C's 1")

	aCount, _ := idx.CountBySourceID(ctx, "A")
	assert.Equal(t, 0, aCount)
	cCount, _ := idx.CountBySourceID(ctx, "C")
	assert.Equal(t, 1, cCount)

	assert.Equal(t, "cursor-1", cursors.token())
}

func TestReconciler_ApplyPage_UpdateReplacesAtomically(t *testing.T) {
	ctx := context.Background()
	idx := memory.NewIndex()
	cursors := &mockCursorStore{}

	require.NoError(t, idx.InsertChunks(ctx, "A", []string{"old1", "old2"}))

	fetcher := &mockFetcher{content: map[string]string{"A": "new1\nnew2\nnew3"}}
	r := newTestReconciler(fetcher, cursors, idx)

	page := &domain.ChangePage{
		Records:    []domain.ChangeRecord{upsert("A", "a.txt")},
		NextCursor: "c1",
	}
	result, err := r.ApplyPage(ctx, page)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Added)

	chunks := idx.Chunks("A")
	require.Len(t, chunks, 3, "exactly the new set, no mix, no duplicates")
	assert.Equal(t, "new1", chunks[0].Content)
	assert.Equal(t, "new2", chunks[1].Content)
	assert.Equal(t, "new3", chunks[2].Content)
}

func TestReconciler_ApplyPage_DeleteNeverIndexed(t *testing.T) {
	ctx := context.Background()
	idx := memory.NewIndex()
	cursors := &mockCursorStore{}
	r := newTestReconciler(&mockFetcher{}, cursors, idx)

	page := &domain.ChangePage{
		Records:    []domain.ChangeRecord{deletion("ghost")},
		NextCursor: "c1",
	}
	result, err := r.ApplyPage(ctx, page)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, "c1", cursors.token())
}

func TestReconciler_ApplyPage_FailureWithholdsCursor(t *testing.T) {
	ctx := context.Background()
	idx := memory.NewIndex()
	cursors := &mockCursorStore{cursor: &domain.SyncCursor{Token: "before"}}

	fetcher := &mockFetcher{
		content: map[string]string{"good": "text"},
		errs:    map[string]error{"bad": domain.ErrTransient},
	}
	r := newTestReconciler(fetcher, cursors, idx)

	page := &domain.ChangePage{
		Records:    []domain.ChangeRecord{upsert("good", "g.txt"), upsert("bad", "b.txt")},
		NextCursor: "after",
	}
	result, err := r.ApplyPage(ctx, page)
	require.NoError(t, err, "item failures never abort the page")

	assert.Equal(t, 1, result.Added, "the good item is still applied")
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "before", cursors.token(), "cursor must not advance past unapplied work")
	assert.Empty(t, cursors.saves)
}

func TestReconciler_ApplyPage_RetryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	idx := memory.NewIndex()
	cursors := &mockCursorStore{}

	fetcher := &mockFetcher{
		content: map[string]string{"good": "g1\ng2"},
		errs:    map[string]error{"bad": domain.ErrTransient},
	}
	r := newTestReconciler(fetcher, cursors, idx)

	page := &domain.ChangePage{
		Records:    []domain.ChangeRecord{upsert("good", "g.txt"), upsert("bad", "b.txt")},
		NextCursor: "c1",
	}

	// First attempt: partial application, cursor withheld.
	result, err := r.ApplyPage(ctx, page)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	// Remote recovers; the same page is retried wholesale.
	fetcher.mu.Lock()
	delete(fetcher.errs, "bad")
	fetcher.content["bad"] = "b1"
	fetcher.mu.Unlock()

	retry := &domain.ChangePage{
		Records:    []domain.ChangeRecord{upsert("good", "g.txt"), upsert("bad", "b.txt")},
		NextCursor: "c1",
	}
	result, err = r.ApplyPage(ctx, retry)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Failed)

	goodCount, _ := idx.CountBySourceID(ctx, "good")
	assert.Equal(t, 2, goodCount, "re-applied item must not duplicate chunks")
	total, _ := idx.Count(ctx)
	assert.Equal(t, 3, total)
	assert.Equal(t, "c1", cursors.token())
}

func TestReconciler_ApplyPage_LastWriteWinsWithinPage(t *testing.T) {
	ctx := context.Background()
	idx := memory.NewIndex()
	cursors := &mockCursorStore{}

	require.NoError(t, idx.InsertChunks(ctx, "A", []string{"old"}))

	r := newTestReconciler(&mockFetcher{}, cursors, idx)

	// Upsert followed by delete for the same ID: the delete wins.
	page := &domain.ChangePage{
		Records:    []domain.ChangeRecord{upsert("A", "a.txt"), deletion("A")},
		NextCursor: "c1",
	}
	result, err := r.ApplyPage(ctx, page)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 0, result.Added+result.Updated)
	n, _ := idx.CountBySourceID(ctx, "A")
	assert.Equal(t, 0, n)
}

func TestReconciler_ApplyPage_UnsupportedTypeSkipped(t *testing.T) {
	ctx := context.Background()
	idx := memory.NewIndex()
	cursors := &mockCursorStore{}

	fetcher := &mockFetcher{content: map[string]string{"img": "binary"}}
	registry := &mockRegistry{chunker: &lineChunker{}, unsupported: map[string]bool{"image/png": true}}
	r := NewReconciler(fetcher, registry, idx, cursors, 4)

	rec := upsert("img", "pic.png")
	rec.Item.ContentType = "image/png"
	page := &domain.ChangePage{Records: []domain.ChangeRecord{rec}, NextCursor: "c1"}

	result, err := r.ApplyPage(ctx, page)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Failed, "unsupported types are skipped, not failed")
	assert.Equal(t, "c1", cursors.token(), "skips do not withhold the cursor")
}

func TestReconciler_ApplyPage_ConcurrentUpsertsDistinctItems(t *testing.T) {
	ctx := context.Background()
	idx := memory.NewIndex()
	cursors := &mockCursorStore{}

	content := map[string]string{}
	var records []domain.ChangeRecord
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		content[id] = "l1\nl2\nl3"
		records = append(records, upsert(id, id+".txt"))
	}
	r := newTestReconciler(&mockFetcher{content: content}, cursors, idx)

	page := &domain.ChangePage{Records: records, NextCursor: "c1"}
	result, err := r.ApplyPage(ctx, page)
	require.NoError(t, err)

	assert.Equal(t, 8, result.Added)
	for id := range content {
		n, _ := idx.CountBySourceID(ctx, id)
		assert.Equal(t, 3, n, "item %s lost chunks to interleaving", id)
	}
}

func TestReconciler_ApplyPage_CancellationWithholdsCursor(t *testing.T) {
	idx := memory.NewIndex()
	cursors := &mockCursorStore{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &mockFetcher{content: map[string]string{"a": "text"}}
	r := newTestReconciler(fetcher, cursors, idx)

	page := &domain.ChangePage{
		Records:    []domain.ChangeRecord{upsert("a", "a.txt")},
		NextCursor: "c1",
	}
	_, err := r.ApplyPage(ctx, page)
	assert.Error(t, err)
	assert.Empty(t, cursors.saves)
}

func TestReconciler_ApplyPage_CursorSaveFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	idx := memory.NewIndex()
	cursors := &mockCursorStore{saveErr: assert.AnError}

	fetcher := &mockFetcher{content: map[string]string{"a": "text"}}
	r := newTestReconciler(fetcher, cursors, idx)

	page := &domain.ChangePage{
		Records:    []domain.ChangeRecord{upsert("a", "a.txt")},
		NextCursor: "c1",
	}
	_, err := r.ApplyPage(ctx, page)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// Guards against a regression where parallel upserts raced on the shared
// result counters.
func TestReconciler_ApplyPage_CountersUnderLoad(t *testing.T) {
	ctx := context.Background()
	idx := memory.NewIndex()
	cursors := &mockCursorStore{}

	content := map[string]string{}
	var records []domain.ChangeRecord
	for i := 0; i < 40; i++ {
		id := fmt.Sprintf("item-%02d", i)
		content[id] = "x"
		records = append(records, upsert(id, id))
	}
	r := NewReconciler(&mockFetcher{content: content}, &mockRegistry{chunker: &lineChunker{}}, idx, cursors, 8)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// Concurrent reader while the page is applied.
		for i := 0; i < 50; i++ {
			_, _ = idx.Count(ctx)
		}
	}()

	page := &domain.ChangePage{Records: records, NextCursor: "c1"}
	result, err := r.ApplyPage(ctx, page)
	wg.Wait()
	require.NoError(t, err)
	assert.Equal(t, 40, result.Added)
}
