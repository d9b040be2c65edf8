package storage

import (
	"testing"
	"time"

	"github.com/filedesk/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestComputeStats(t *testing.T) {
	now := t0.Add(30 * 24 * time.Hour)
	recent := file("r", "/recent.txt", 1024)
	recent.CreatedAt = now.Add(-2 * 24 * time.Hour)
	recent.ModifiedAt = recent.CreatedAt

	records := append(fixture(), recent)
	st := ComputeStats(records, now, 0)

	assert.Equal(t, 4, st.TotalFiles)
	assert.Equal(t, 3, st.TotalFolders)
	assert.Equal(t, int64(10+20+30+1024), st.TotalBytes)
	assert.Equal(t, "1.06 KB", st.TotalSize)
	assert.Equal(t, 1, st.RecentUploads)
	assert.Zero(t, st.StorageUsed)
}

func TestComputeStats_Quota(t *testing.T) {
	records := []models.FileRecord{file("a", "/a", 250)}
	assert.Equal(t, 25.0, ComputeStats(records, t0, 1000).StorageUsed)
	assert.Equal(t, 100.0, ComputeStats(records, t0, 100).StorageUsed)
}

func TestComputeStats_Empty(t *testing.T) {
	st := ComputeStats(nil, t0, 1000)
	assert.Equal(t, models.Stats{TotalSize: "0 B"}, st)
}
