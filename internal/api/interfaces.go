// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"time"

	"github.com/filedesk/backend/internal/documents"
	"github.com/filedesk/backend/internal/models"
	"github.com/filedesk/backend/internal/upload"
	"github.com/labstack/echo/v4"
)

// FileHandler handles the file manager listing and record operations
type FileHandler interface {
	HandleListFiles(c echo.Context) error
	HandleGetFile(c echo.Context) error
	HandleRenameFile(c echo.Context) error
	HandleDeleteFile(c echo.Context) error
	HandleOpenFile(c echo.Context) error
	HandleFileAction(c echo.Context) error
	HandleCreateFolder(c echo.Context) error
	HandleBreadcrumbs(c echo.Context) error
	HandleStats(c echo.Context) error
}

// UploadHandler handles simulated upload tasks
type UploadHandler interface {
	HandleStartUploads(c echo.Context) error
	HandleListUploads(c echo.Context) error
	HandleGetUpload(c echo.Context) error
	HandleDismissUpload(c echo.Context) error
	HandleClearCompleted(c echo.Context) error
	HandleUploadProgressStream(c echo.Context) error
}

// DocumentHandler handles the document manager
type DocumentHandler interface {
	HandleListDocuments(c echo.Context) error
	HandleGetDocument(c echo.Context) error
	HandleUpdateDocument(c echo.Context) error
	HandleDeleteDocument(c echo.Context) error
	HandleUploadDocument(c echo.Context) error
	HandleDocumentStats(c echo.Context) error
	HandleCategories(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// UploadManager is the part of upload.Manager the handlers use.
// This allows mocking in tests
type UploadManager interface {
	Start(file models.LocalFile, folder string, done upload.CompletionFunc) models.UploadTask
	Get(id string) (models.UploadTask, bool)
	List() []models.UploadTask
	Dismiss(id string) bool
	ClearCompleted() int
}

// DocumentService is the document manager behind DocumentHandler.
type DocumentService interface {
	List(f models.DocumentFilter) []models.Document
	Get(id string) (models.Document, error)
	Update(id string, patch models.DocumentPatch) (models.Document, error)
	Delete(id string) bool
	Upload(file models.LocalFile, meta documents.Metadata) models.UploadTask
	Stats(now time.Time) models.DocumentStats
	Categories() []models.Label
}

var (
	_ UploadManager   = (*upload.Manager)(nil)
	_ DocumentService = (*documents.Service)(nil)
)
