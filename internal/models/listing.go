package models

// SortKey selects the comparator used by the listing view.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortBySize     SortKey = "size"
	SortByModified SortKey = "modified"
	SortByType     SortKey = "type"
)

// SortOrder is the direction of the listing.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Stats summarizes the file collection for the dashboard.
type Stats struct {
	TotalFiles    int     `json:"totalFiles"`
	TotalFolders  int     `json:"totalFolders"`
	TotalBytes    int64   `json:"totalBytes"`
	TotalSize     string  `json:"totalSize"`
	RecentUploads int     `json:"recentUploads"`
	StorageUsed   float64 `json:"storageUsed"` // percent of quota
}
