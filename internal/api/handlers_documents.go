// handlers_documents.go - Document manager handlers
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/filedesk/backend/internal/documents"
	"github.com/filedesk/backend/internal/fileutil"
	"github.com/filedesk/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// HandleListDocuments returns the documents matching the query filters:
// q, category, from, to (YYYY-MM-DD or RFC 3339) and tags (comma separated).
func (h *Handler) HandleListDocuments(c echo.Context) error {
	filter := models.DocumentFilter{
		SearchTerm: c.QueryParam("q"),
		Category:   c.QueryParam("category"),
	}

	if from := c.QueryParam("from"); from != "" {
		t, err := parseDate(from, false)
		if err != nil {
			return NewBadRequestError("invalid from date", err)
		}
		filter.DateFrom = &t
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := parseDate(to, true)
		if err != nil {
			return NewBadRequestError("invalid to date", err)
		}
		filter.DateTo = &t
	}
	if tags := c.QueryParam("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}

	docs := h.docs.List(filter)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"documents": docs,
		"total":     len(docs),
	})
}

// HandleGetDocument returns one document.
func (h *Handler) HandleGetDocument(c echo.Context) error {
	id := c.Param("id")
	doc, err := h.docs.Get(id)
	if err != nil {
		return errorFor(err, "document", id)
	}
	return c.JSON(http.StatusOK, doc)
}

// HandleUpdateDocument merges the request body into a document.
func (h *Handler) HandleUpdateDocument(c echo.Context) error {
	id := c.Param("id")
	var patch models.DocumentPatch
	if err := c.Bind(&patch); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return NewValidationError("title")
	}

	doc, err := h.docs.Update(id, patch)
	if err != nil {
		return errorFor(err, "document", id)
	}
	return c.JSON(http.StatusOK, doc)
}

// HandleDeleteDocument removes a document.
func (h *Handler) HandleDeleteDocument(c echo.Context) error {
	id := c.Param("id")
	if !h.docs.Delete(id) {
		return NewNotFoundError("document", id)
	}
	return c.NoContent(http.StatusNoContent)
}

type uploadDocumentRequest struct {
	File models.LocalFile `json:"file"`
	documents.Metadata
}

func (r *uploadDocumentRequest) validate() error {
	if !fileutil.ValidName(r.File.Name) {
		return NewValidationError("file.name")
	}
	return nil
}

// HandleUploadDocument starts a simulated document upload.
func (h *Handler) HandleUploadDocument(c echo.Context) error {
	var req uploadDocumentRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	task := h.docs.Upload(req.File, req.Metadata)
	return c.JSON(http.StatusAccepted, task)
}

// HandleDocumentStats returns the document dashboard counters.
func (h *Handler) HandleDocumentStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.docs.Stats(h.now()))
}

// HandleCategories returns the categories offered for uploads.
func (h *Handler) HandleCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.docs.Categories())
}

// parseDate accepts a calendar day or an RFC 3339 timestamp. A calendar
// day used as an upper bound covers the whole day.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
