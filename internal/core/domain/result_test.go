package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncCycleResult_Merge(t *testing.T) {
	total := SyncCycleResult{Added: 1, Failed: 1}
	total.Merge(SyncCycleResult{Added: 2, Updated: 3, Deleted: 4, Skipped: 1})

	assert.Equal(t, 3, total.Added)
	assert.Equal(t, 3, total.Updated)
	assert.Equal(t, 4, total.Deleted)
	assert.Equal(t, 1, total.Skipped)
	assert.Equal(t, 1, total.Failed)
	assert.Equal(t, 10, total.Processed())
}

func TestSyncCycleResult_String(t *testing.T) {
	r := SyncCycleResult{Added: 1, Updated: 2, Deleted: 3, Skipped: 4, Failed: 5}
	assert.Equal(t, "added=1 updated=2 deleted=3 skipped=4 failed=5", r.String())
}

func TestSyncMode_String(t *testing.T) {
	assert.Equal(t, "delta", ModeDelta.String())
	assert.Equal(t, "full", ModeFull.String())
}
