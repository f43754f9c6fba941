package driven

import "context"

// ContentFetcher downloads the raw bytes of a remote item.
type ContentFetcher interface {
	// Fetch returns the content bytes and the MIME type reported by the
	// remote. Returns domain.ErrNotFound if the item no longer exists and
	// domain.ErrTransient for recoverable remote failures.
	Fetch(ctx context.Context, itemID string) ([]byte, string, error)
}
