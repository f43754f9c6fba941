package domain

import "time"

// RemoteItem identifies one source document on the remote drive.
// IDs are assigned by the remote and stable for the item's lifetime.
type RemoteItem struct {
	// ID is the remote item identifier.
	ID string

	// Name is the file name including extension.
	Name string

	// ETag changes whenever the item's content changes.
	ETag string

	// ContentType is the MIME type reported by the remote.
	ContentType string

	// FolderPath is the item's folder path relative to the drive root,
	// without a leading slash (e.g. "Memos/2026").
	FolderPath string

	// Size is the content size in bytes.
	Size int64

	// WebURL is the browser-facing URL of the item.
	WebURL string

	// LastModified is the remote modification timestamp.
	LastModified time.Time
}

// ChangeRecord is one entry in a change feed page. It is either a deletion
// marker (ItemID only) or an upsert marker carrying full item metadata.
type ChangeRecord struct {
	// ItemID is the remote item the change applies to.
	ItemID string

	// Deleted marks the item as removed on the remote.
	Deleted bool

	// Item holds the item metadata for upserts. Nil on deletions.
	Item *RemoteItem
}

// ChangePage is one page of the change feed.
type ChangePage struct {
	// Records are the changes in this page.
	Records []ChangeRecord

	// NextCursor is the opaque cursor that represents "everything up to and
	// including this page has been seen". It must be stored, never parsed.
	NextCursor string

	// HasMore indicates further pages are available in this session.
	HasMore bool
}

// Dedupe collapses multiple records for the same item ID into one,
// keeping the last occurrence (last-write-wins within a page).
func (p *ChangePage) Dedupe() {
	seen := make(map[string]int, len(p.Records))
	out := p.Records[:0]
	for _, rec := range p.Records {
		if idx, ok := seen[rec.ItemID]; ok {
			out[idx] = rec
			continue
		}
		seen[rec.ItemID] = len(out)
		out = append(out, rec)
	}
	p.Records = out
}
