package models

import "time"

// UploadStatus represents the status of a simulated upload.
type UploadStatus string

const (
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusCompleted UploadStatus = "completed"
	UploadStatusError     UploadStatus = "error"
)

// UploadTask is the transient state of one simulated file transfer.
type UploadTask struct {
	ID          string       `json:"id"`
	FileName    string       `json:"fileName"`
	Size        int64        `json:"size"`
	Folder      string       `json:"folder,omitempty"`
	Progress    float64      `json:"progress"` // 0-100
	Status      UploadStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
	RecordID    string       `json:"recordId,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}

// Terminal reports whether the task reached a final status.
func (t *UploadTask) Terminal() bool {
	return t.Status == UploadStatusCompleted || t.Status == UploadStatusError
}

// NewUploadTask creates a task in uploading status with zero progress.
func NewUploadTask(id string, file LocalFile, folder string) *UploadTask {
	return &UploadTask{
		ID:        id,
		FileName:  file.Name,
		Size:      file.Size,
		Folder:    folder,
		Progress:  0,
		Status:    UploadStatusUploading,
		CreatedAt: time.Now(),
	}
}
