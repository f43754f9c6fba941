package driven

import (
	"context"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
)

// ChangeFeed wraps the remote delta protocol.
type ChangeFeed interface {
	// Open starts a feed session. A nil cursor requests a full enumeration
	// of the corpus (upsert-only pages). A non-nil cursor requests only
	// changes recorded after it.
	//
	// Open validates the cursor against the remote and returns
	// domain.ErrCursorExpired if it is no longer accepted; the caller
	// should discard the stored cursor and reopen with nil.
	Open(ctx context.Context, cursor *domain.SyncCursor) (FeedSession, error)
}

// FeedSession produces a lazy, finite sequence of change pages.
type FeedSession interface {
	// Next returns the next page. The final page has HasMore == false;
	// calling Next again returns domain.ErrFeedExhausted.
	Next(ctx context.Context) (*domain.ChangePage, error)
}
