package graph

import (
	"context"
	"fmt"

	"github.com/rivergate-labs/chunksync/internal/core/ports/driven"
)

// Ensure Client implements the content fetch port.
var _ driven.ContentFetcher = (*Client)(nil)

// Fetch downloads the content bytes of a drive item. The second return
// value is the Content-Type reported by the remote, which may be more
// specific than the MIME type in the item metadata.
func (c *Client) Fetch(ctx context.Context, itemID string) ([]byte, string, error) {
	driveID, err := c.resolveDriveID(ctx)
	if err != nil {
		return nil, "", err
	}

	// Graph redirects content downloads to a pre-authenticated URL; the
	// HTTP client follows it.
	data, contentType, err := c.get(ctx, fmt.Sprintf("%s/drives/%s/items/%s/content", c.baseURL, driveID, itemID))
	if err != nil {
		return nil, "", fmt.Errorf("fetch content for %s: %w", itemID, err)
	}
	return data, contentType, nil
}
