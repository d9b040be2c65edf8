package storage

import (
	"time"

	"github.com/filedesk/backend/internal/fileutil"
	"github.com/filedesk/backend/internal/models"
)

// RecentWindow is how far back a record counts as a recent upload.
const RecentWindow = 7 * 24 * time.Hour

// ComputeStats summarizes records for the dashboard. quota is the storage
// capacity in bytes; zero or less reports 0% used.
func ComputeStats(records []models.FileRecord, now time.Time, quota int64) models.Stats {
	var st models.Stats
	cutoff := now.Add(-RecentWindow)

	for _, r := range records {
		if r.IsFolder() {
			st.TotalFolders++
			continue
		}
		st.TotalFiles++
		st.TotalBytes += r.Size
		if !r.CreatedAt.Before(cutoff) {
			st.RecentUploads++
		}
	}

	st.TotalSize = fileutil.FormatFileSize(st.TotalBytes)
	if quota > 0 {
		used := float64(st.TotalBytes) / float64(quota) * 100
		if used > 100 {
			used = 100
		}
		st.StorageUsed = float64(int(used*10+0.5)) / 10
	}
	return st
}
