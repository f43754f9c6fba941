package services

import (
	"context"
	"strings"
	"sync"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
	"github.com/rivergate-labs/chunksync/internal/core/ports/driven"
)

// --- Mock collaborators shared by the service tests ---

// mockCursorStore is an in-memory cursor store that records saves.
type mockCursorStore struct {
	mu      sync.Mutex
	cursor  *domain.SyncCursor
	saves   []domain.SyncCursor
	saveErr error
	loadErr error
}

func (m *mockCursorStore) Load() (*domain.SyncCursor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.cursor == nil {
		return nil, nil
	}
	c := *m.cursor
	return &c, nil
}

func (m *mockCursorStore) Save(cursor domain.SyncCursor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.cursor = &cursor
	m.saves = append(m.saves, cursor)
	return nil
}

func (m *mockCursorStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = nil
	return nil
}

func (m *mockCursorStore) token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor == nil {
		return ""
	}
	return m.cursor.Token
}

// mockFetcher serves scripted content bytes per item ID.
type mockFetcher struct {
	mu      sync.Mutex
	content map[string]string
	errs    map[string]error
	fetched []string
}

func (m *mockFetcher) Fetch(_ context.Context, itemID string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetched = append(m.fetched, itemID)
	if err, ok := m.errs[itemID]; ok {
		return nil, "", err
	}
	text, ok := m.content[itemID]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return []byte(text), "text/plain", nil
}

// lineChunker splits content on newlines, one chunk per non-empty line.
type lineChunker struct {
	err error
}

func (c *lineChunker) ContentTypes() []string { return []string{"text/plain"} }

func (c *lineChunker) Chunk(_ context.Context, data []byte, _ *domain.RemoteItem) ([]string, error) {
	if c.err != nil {
		return nil, c.err
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

// mockRegistry resolves every content type to a single chunker, except
// types listed as unsupported.
type mockRegistry struct {
	chunker     driven.Chunker
	unsupported map[string]bool
}

func (m *mockRegistry) Resolve(contentType string) (driven.Chunker, bool) {
	if m.unsupported[contentType] {
		return nil, false
	}
	return m.chunker, true
}

// mockFeed serves a scripted sequence of pages. When openErrOnce is set it
// fails the first Open (cursor expiry) and records the reopen.
type mockFeed struct {
	mu          sync.Mutex
	pages       []domain.ChangePage
	openErr     error
	openErrOnce bool
	opens       []*domain.SyncCursor
}

func (m *mockFeed) Open(_ context.Context, cursor *domain.SyncCursor) (driven.FeedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opens = append(m.opens, cursor)
	if m.openErr != nil {
		err := m.openErr
		if m.openErrOnce {
			m.openErr = nil
		}
		return nil, err
	}
	return &mockSession{pages: m.pages}, nil
}

type mockSession struct {
	pages []domain.ChangePage
	pos   int
}

func (s *mockSession) Next(_ context.Context) (*domain.ChangePage, error) {
	if s.pos >= len(s.pages) {
		return nil, domain.ErrFeedExhausted
	}
	page := s.pages[s.pos]
	s.pos++
	page.HasMore = s.pos < len(s.pages)
	return &page, nil
}
