package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
)

func TestStatusCmd_NoCursor(t *testing.T) {
	cleanup := setupTest(&mockOrchestrator{})
	defer cleanup()
	chunkIndex = &mockIndex{count: 42}

	out, err := execute("status")

	assert.NoError(t, err)
	assert.Contains(t, out, "Indexed chunks: 42")
	assert.Contains(t, out, "Cursor: none")
}

func TestStatusCmd_CursorAge(t *testing.T) {
	cleanup := setupTest(&mockOrchestrator{})
	defer cleanup()
	cursorStore = &mockCursors{cursor: &domain.SyncCursor{
		Token:     "opaque",
		UpdatedAt: time.Now().Add(-2 * time.Hour),
	}}

	out, err := execute("status")

	assert.NoError(t, err)
	assert.Contains(t, out, "Cursor: updated")
	assert.NotContains(t, out, "opaque")
}

func TestStatusCmd_RunningCycle(t *testing.T) {
	cleanup := setupTest(&mockOrchestrator{running: true})
	defer cleanup()

	out, err := execute("status")

	assert.NoError(t, err)
	assert.Contains(t, out, "cycle is running")
}
