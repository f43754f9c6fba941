package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
	"github.com/rivergate-labs/chunksync/internal/core/ports/driven"
	"github.com/rivergate-labs/chunksync/internal/logger"
)

// Ensure Client implements the feed port.
var _ driven.ChangeFeed = (*Client)(nil)

// deltaResponse mirrors one page of the drive delta endpoint.
type deltaResponse struct {
	Value     []deltaItem `json:"value"`
	NextLink  string      `json:"@odata.nextLink"`
	DeltaLink string      `json:"@odata.deltaLink"`
}

// deltaItem is one drive item in a delta page. Exactly one of the File,
// Folder or Deleted facets is present.
type deltaItem struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	ETag                 string `json:"eTag"`
	Size                 int64  `json:"size"`
	WebURL               string `json:"webUrl"`
	LastModifiedDateTime string `json:"lastModifiedDateTime"`

	File *struct {
		MimeType string `json:"mimeType"`
	} `json:"file"`
	Folder  *struct{} `json:"folder"`
	Deleted *struct {
		State string `json:"state"`
	} `json:"deleted"`

	ParentReference struct {
		Path string `json:"path"`
	} `json:"parentReference"`
}

// session is a delta feed session. Open fetches the first page eagerly so
// cursor rejection surfaces on Open, not on the first Next.
type session struct {
	client  *Client
	first   *domain.ChangePage
	nextURL string
	done    bool
}

// Open starts a delta session. With a nil cursor the session enumerates the
// entire drive (upsert-only pages); with a stored cursor it returns only
// changes recorded after it. Returns domain.ErrCursorExpired when the
// remote rejects the cursor.
func (c *Client) Open(ctx context.Context, cursor *domain.SyncCursor) (driven.FeedSession, error) {
	var startURL string
	if cursor != nil && !cursor.IsZero() {
		// The token is the opaque next/delta link issued by the remote.
		startURL = cursor.Token
	} else {
		driveID, err := c.resolveDriveID(ctx)
		if err != nil {
			return nil, err
		}
		startURL = fmt.Sprintf("%s/drives/%s/root/delta", c.baseURL, driveID)
	}

	s := &session{client: c}
	page, next, err := c.fetchDeltaPage(ctx, startURL)
	if err != nil {
		return nil, err
	}
	s.first = page
	s.nextURL = next
	return s, nil
}

// Next returns the next change page.
func (s *session) Next(ctx context.Context) (*domain.ChangePage, error) {
	if s.first != nil {
		page := s.first
		s.first = nil
		s.done = !page.HasMore
		return page, nil
	}
	if s.done {
		return nil, domain.ErrFeedExhausted
	}

	page, next, err := s.client.fetchDeltaPage(ctx, s.nextURL)
	if err != nil {
		return nil, err
	}
	s.nextURL = next
	s.done = !page.HasMore
	return page, nil
}

// fetchDeltaPage fetches one delta page and maps it to domain records.
// The returned string is the URL of the following page, if any.
func (c *Client) fetchDeltaPage(ctx context.Context, pageURL string) (*domain.ChangePage, string, error) {
	var resp deltaResponse
	if err := c.getJSON(ctx, pageURL, &resp); err != nil {
		return nil, "", err
	}

	page := &domain.ChangePage{}
	for _, item := range resp.Value {
		rec, ok := c.mapDeltaItem(item)
		if ok {
			page.Records = append(page.Records, rec)
		}
	}

	if resp.NextLink != "" {
		page.NextCursor = resp.NextLink
		page.HasMore = true
		return page, resp.NextLink, nil
	}
	page.NextCursor = resp.DeltaLink
	page.HasMore = false
	return page, "", nil
}

// mapDeltaItem converts a delta item to a change record. Folders and items
// outside the configured scan folders are dropped.
func (c *Client) mapDeltaItem(item deltaItem) (domain.ChangeRecord, bool) {
	// Deletions bypass the folder filter: the remote may omit the parent
	// path on tombstones, and deleting an unindexed ID is a no-op anyway.
	if item.Deleted != nil {
		return domain.ChangeRecord{ItemID: item.ID, Deleted: true}, true
	}

	folderPath := pathAfterRoot(item.ParentReference.Path)
	if !c.inScanFolders(folderPath) {
		return domain.ChangeRecord{}, false
	}
	if item.File == nil {
		// Folder entries carry no indexable content.
		return domain.ChangeRecord{}, false
	}

	modified, err := time.Parse(time.RFC3339, item.LastModifiedDateTime)
	if err != nil {
		logger.Debug("item %s: unparseable lastModifiedDateTime %q", item.ID, item.LastModifiedDateTime)
	}

	return domain.ChangeRecord{
		ItemID: item.ID,
		Item: &domain.RemoteItem{
			ID:           item.ID,
			Name:         item.Name,
			ETag:         item.ETag,
			ContentType:  item.File.MimeType,
			FolderPath:   folderPath,
			Size:         item.Size,
			WebURL:       item.WebURL,
			LastModified: modified,
		},
	}, true
}

// inScanFolders reports whether a folder path falls inside the configured
// scan folders. An empty configuration admits everything.
func (c *Client) inScanFolders(folderPath string) bool {
	if len(c.scanFolders) == 0 {
		return true
	}
	for _, folder := range c.scanFolders {
		if folderPath == folder || strings.HasPrefix(folderPath, folder+"/") {
			return true
		}
	}
	return false
}

// pathAfterRoot extracts the drive-relative folder path from a Graph
// parentReference path like "/drives/{id}/root:/Memos/2026".
func pathAfterRoot(parentPath string) string {
	_, after, found := strings.Cut(parentPath, "/root:")
	if !found {
		return ""
	}
	return strings.TrimPrefix(after, "/")
}
