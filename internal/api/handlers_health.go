// handlers_health.go - Health check handlers
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	started time.Time
	uploads UploadManager
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, uploads UploadManager) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		started: time.Now(),
		uploads: uploads,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	active := 0
	if h.uploads != nil {
		for _, t := range h.uploads.List() {
			if !t.Terminal() {
				active++
			}
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"version":       h.version,
		"uptimeSeconds": int64(time.Since(h.started).Seconds()),
		"activeUploads": active,
	})
}
