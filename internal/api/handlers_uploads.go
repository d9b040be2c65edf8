// handlers_uploads.go - Simulated upload handlers
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/filedesk/backend/internal/events"
	"github.com/filedesk/backend/internal/fileutil"
	"github.com/filedesk/backend/internal/logging"
	"github.com/filedesk/backend/internal/models"
	"github.com/filedesk/backend/internal/storage"
	"github.com/filedesk/backend/internal/upload"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	progressPollInterval = 100 * time.Millisecond
	progressStreamLimit  = 5 * time.Minute
)

type startUploadsRequest struct {
	Path  string             `json:"path"`
	Files []models.LocalFile `json:"files"`
}

func (r *startUploadsRequest) validate() error {
	if len(r.Files) == 0 {
		return NewValidationError("files")
	}
	for i, f := range r.Files {
		if !fileutil.ValidName(f.Name) {
			return NewValidationError(fmt.Sprintf("files[%d].name", i))
		}
	}
	return nil
}

// HandleStartUploads starts one simulated transfer per file into path.
// Every accepted file becomes a record when its task completes.
func (h *Handler) HandleStartUploads(c echo.Context) error {
	var req startUploadsRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	folder := fileutil.NormalizeFolder(req.Path)
	tasks := make([]models.UploadTask, 0, len(req.Files))
	for _, f := range req.Files {
		tasks = append(tasks, h.uploads.Start(f, folder, h.appendUploadedFile(folder)))
	}

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"tasks": tasks,
	})
}

// appendUploadedFile turns a completed transfer into a record of folder.
func (h *Handler) appendUploadedFile(folder string) upload.CompletionFunc {
	return func(ctx context.Context, f models.LocalFile) (string, error) {
		rec := storage.NewFileRecord(f, folder, h.now())
		if err := h.store.Append(ctx, rec); err != nil {
			return "", err
		}
		logging.Info("uploaded file added", zap.String("id", rec.ID), zap.String("path", rec.Path))
		h.publisher.Publish(events.Event{Type: events.EventFileCreated, ID: rec.ID, Data: rec})
		h.refreshRecordGauge(ctx)
		return rec.ID, nil
	}
}

// HandleListUploads returns the visible upload tasks.
func (h *Handler) HandleListUploads(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uploads.List())
}

// HandleGetUpload returns one upload task.
func (h *Handler) HandleGetUpload(c echo.Context) error {
	id := c.Param("id")
	task, ok := h.uploads.Get(id)
	if !ok {
		return NewNotFoundError("upload", id)
	}
	return c.JSON(http.StatusOK, task)
}

// HandleDismissUpload hides an upload task.
func (h *Handler) HandleDismissUpload(c echo.Context) error {
	id := c.Param("id")
	if !h.uploads.Dismiss(id) {
		return NewNotFoundError("upload", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleClearCompleted drops every completed task.
func (h *Handler) HandleClearCompleted(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{
		"cleared": h.uploads.ClearCompleted(),
	})
}

// HandleUploadProgressStream streams a task's progress via SSE until it
// completes or fails.
func (h *Handler) HandleUploadProgressStream(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	task, ok := h.uploads.Get(id)
	if !ok {
		sendSSEError(c, "upload not found")
		return nil
	}
	sendSSEData(c, task)
	if task.Terminal() {
		return nil
	}

	ticker := time.NewTicker(progressPollInterval)
	defer ticker.Stop()

	timeout := time.NewTimer(progressStreamLimit)
	defer timeout.Stop()

	for {
		select {
		case <-ticker.C:
			task, ok := h.uploads.Get(id)
			if !ok {
				sendSSEError(c, "upload dismissed")
				return nil
			}

			sendSSEData(c, task)
			if task.Terminal() {
				return nil
			}

		case <-timeout.C:
			sendSSEError(c, "stream timeout")
			return nil

		case <-c.Request().Context().Done():
			return nil
		}
	}
}

func sendSSEData(c echo.Context, data interface{}) {
	jsonData, _ := json.Marshal(data)
	fmt.Fprintf(c.Response(), "data: %s\n\n", jsonData)
	c.Response().Flush()
}

func sendSSEError(c echo.Context, message string) {
	sendSSEData(c, map[string]string{"error": message})
}
