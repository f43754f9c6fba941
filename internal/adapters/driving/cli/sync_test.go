package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
)

func TestSyncCmd_Use(t *testing.T) {
	assert.Equal(t, "sync", syncCmd.Use)
}

func TestSyncCmd_DeltaByDefault(t *testing.T) {
	orch := &mockOrchestrator{result: &domain.SyncCycleResult{Added: 2, Deleted: 1}}
	cleanup := setupTest(orch)
	defer cleanup()

	out, err := execute("sync")

	assert.NoError(t, err)
	assert.Equal(t, 1, orch.calls)
	assert.Equal(t, domain.ModeDelta, orch.mode)
	assert.Contains(t, out, "Starting delta sync")
	assert.Contains(t, out, "Sync finished")
}

func TestSyncCmd_FullFlag(t *testing.T) {
	orch := &mockOrchestrator{}
	cleanup := setupTest(orch)
	defer cleanup()
	defer func() { fullResync = false }()

	_, err := execute("sync", "--full")

	assert.NoError(t, err)
	assert.Equal(t, domain.ModeFull, orch.mode)
}

func TestSyncCmd_FailedItemsReturnError(t *testing.T) {
	orch := &mockOrchestrator{result: &domain.SyncCycleResult{Added: 3, Failed: 2}}
	cleanup := setupTest(orch)
	defer cleanup()

	out, err := execute("sync")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "2 items failed")
	assert.Contains(t, out, "Sync finished")
}

func TestSyncCmd_AlreadyRunning(t *testing.T) {
	orch := &mockOrchestrator{err: domain.ErrSyncInProgress}
	cleanup := setupTest(orch)
	defer cleanup()

	_, err := execute("sync")

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSyncInProgress)
}

func TestSyncCmd_CycleError(t *testing.T) {
	orch := &mockOrchestrator{err: errors.New("feed unreachable")}
	cleanup := setupTest(orch)
	defer cleanup()

	_, err := execute("sync")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sync failed")
}
