package cli

import (
	"bytes"
	"context"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
)

// mockOrchestrator implements driving.SyncOrchestrator for command tests.
type mockOrchestrator struct {
	result  *domain.SyncCycleResult
	err     error
	mode    domain.SyncMode
	calls   int
	running bool
}

func (m *mockOrchestrator) RunCycle(_ context.Context, mode domain.SyncMode) (*domain.SyncCycleResult, error) {
	m.calls++
	m.mode = mode
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.SyncCycleResult{}, nil
}

func (m *mockOrchestrator) Running() bool {
	return m.running
}

// mockIndex implements the chunk index methods the status command uses.
type mockIndex struct {
	count int
	err   error
}

func (m *mockIndex) DeleteBySourceID(context.Context, string) (int, error) { return 0, nil }
func (m *mockIndex) InsertChunks(context.Context, string, []string) error { return nil }
func (m *mockIndex) Count(context.Context) (int, error)                   { return m.count, m.err }
func (m *mockIndex) CountBySourceID(context.Context, string) (int, error) { return 0, nil }
func (m *mockIndex) Clear(context.Context) error                          { return nil }

// mockCursors implements driven.CursorStore.
type mockCursors struct {
	cursor *domain.SyncCursor
	err    error
}

func (m *mockCursors) Load() (*domain.SyncCursor, error) { return m.cursor, m.err }
func (m *mockCursors) Save(domain.SyncCursor) error      { return nil }
func (m *mockCursors) Clear() error                      { return nil }

// mockSearcher implements chunkSearcher.
type mockSearcher struct {
	results []domain.ScoredChunk
	err     error
	query   string
	topK    int
}

func (m *mockSearcher) Search(_ context.Context, query string, topK int) ([]domain.ScoredChunk, error) {
	m.query = query
	m.topK = topK
	return m.results, m.err
}

// setupTest swaps in mocks and returns a cleanup restoring the previous
// wiring.
func setupTest(orch *mockOrchestrator) func() {
	oldOrch, oldIndex, oldCursors := syncOrchestrator, chunkIndex, cursorStore
	oldSignal, oldSearch, oldConfig := indexSignal, searchIndex, configStore

	syncOrchestrator = orch
	chunkIndex = &mockIndex{}
	cursorStore = &mockCursors{}

	return func() {
		syncOrchestrator, chunkIndex, cursorStore = oldOrch, oldIndex, oldCursors
		indexSignal, searchIndex, configStore = oldSignal, oldSearch, oldConfig
	}
}

// execute runs the root command with args and captures output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
