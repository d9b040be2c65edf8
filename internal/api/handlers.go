package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/filedesk/backend/internal/actions"
	"github.com/filedesk/backend/internal/events"
	"github.com/filedesk/backend/internal/fileutil"
	"github.com/filedesk/backend/internal/listing"
	"github.com/filedesk/backend/internal/logging"
	"github.com/filedesk/backend/internal/metrics"
	"github.com/filedesk/backend/internal/models"
	"github.com/filedesk/backend/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const mimeMsgpack = "application/msgpack"

// Handler handles API requests. It owns the record store for the lifetime
// of the server.
type Handler struct {
	store      storage.Store
	dispatcher *actions.Dispatcher
	uploads    UploadManager
	docs       DocumentService
	publisher  events.Publisher
	quota      int64
	now        func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(deps *Dependencies) *Handler {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Handler{
		store:      deps.Store,
		dispatcher: actions.NewDispatcher(deps.Store, publisher),
		uploads:    deps.Uploads,
		docs:       deps.Documents,
		publisher:  publisher,
		quota:      deps.QuotaBytes,
		now:        time.Now,
	}
}

// fileView is a record as shown in the listing.
type fileView struct {
	models.FileRecord
	Icon          string `json:"icon" msgpack:"icon"`
	FormattedSize string `json:"formattedSize" msgpack:"formattedSize"`
}

type listQuery struct {
	Search string           `json:"q" msgpack:"q"`
	Path   string           `json:"path" msgpack:"path"`
	SortBy models.SortKey   `json:"sortBy" msgpack:"sortBy"`
	Order  models.SortOrder `json:"order" msgpack:"order"`
}

type listFilesResponse struct {
	Files       []fileView          `json:"files" msgpack:"files"`
	Breadcrumbs []models.Breadcrumb `json:"breadcrumbs" msgpack:"breadcrumbs"`
	Total       int                 `json:"total" msgpack:"total"`
	Query       listQuery           `json:"query" msgpack:"query"`
}

// HandleListFiles returns the filtered and sorted listing with the
// breadcrumb trail of the requested path.
func (h *Handler) HandleListFiles(c echo.Context) error {
	q := listing.DefaultQuery()
	q.Search = c.QueryParam("q")
	if p := c.QueryParam("path"); p != "" {
		q.Path = p
	}
	if s := c.QueryParam("sortBy"); s != "" {
		q.SortBy = listing.ParseSortKey(s)
	}
	if o := c.QueryParam("order"); o != "" {
		q.Order = listing.ParseSortOrder(o)
	}

	records, err := h.store.List(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to list files", err)
	}

	visible := listing.Apply(records, q)
	resp := listFilesResponse{
		Files:       make([]fileView, len(visible)),
		Breadcrumbs: fileutil.Breadcrumbs(q.Path),
		Total:       len(visible),
		Query:       listQuery{Search: q.Search, Path: q.Path, SortBy: q.SortBy, Order: q.Order},
	}
	for i, r := range visible {
		resp.Files[i] = fileView{
			FileRecord:    r,
			Icon:          fileutil.IconFor(r.Name, r.Kind),
			FormattedSize: fileutil.FormatFileSize(r.Size),
		}
	}

	if wantsMsgpack(c) {
		data, err := msgpack.Marshal(resp)
		if err != nil {
			return NewInternalError("failed to encode msgpack", err)
		}
		return c.Blob(http.StatusOK, mimeMsgpack, data)
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleGetFile returns a single record.
func (h *Handler) HandleGetFile(c echo.Context) error {
	id := c.Param("id")
	rec, err := h.store.Get(c.Request().Context(), id)
	if err != nil {
		return errorFor(err, "file", id)
	}
	return c.JSON(http.StatusOK, rec)
}

type renameFileRequest struct {
	Name string `json:"name"`
}

// HandleRenameFile renames a record. Folders carry their contents along.
func (h *Handler) HandleRenameFile(c echo.Context) error {
	id := c.Param("id")
	var req renameFileRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if !fileutil.ValidName(req.Name) {
		return NewValidationError("name")
	}

	rec, err := h.store.Rename(c.Request().Context(), id, strings.TrimSpace(req.Name))
	if err != nil {
		return errorFor(err, "file", id)
	}

	logging.Info("record renamed", zap.String("id", id), zap.String("name", rec.Name))
	h.publisher.Publish(events.Event{Type: events.EventFileRenamed, ID: id, Data: rec})
	return c.JSON(http.StatusOK, rec)
}

// HandleDeleteFile deletes a record. Unknown ids are not an error.
func (h *Handler) HandleDeleteFile(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.dispatcher.Dispatch(c.Request().Context(), actions.ActionDelete, id); err != nil {
		return errorFor(err, "file", id)
	}
	h.refreshRecordGauge(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// HandleOpenFile is the click on a record: folders return the path to
// navigate to, files are previewed.
func (h *Handler) HandleOpenFile(c echo.Context) error {
	id := c.Param("id")
	res, err := h.dispatcher.Open(c.Request().Context(), id)
	if err != nil {
		return errorFor(err, "file", id)
	}
	return c.JSON(http.StatusOK, res)
}

// HandleFileAction runs a context-menu action on a record.
func (h *Handler) HandleFileAction(c echo.Context) error {
	id := c.Param("id")
	action, err := actions.Parse(c.Param("action"))
	if err != nil {
		return errorFor(err, "action", c.Param("action"))
	}

	res, err := h.dispatcher.Dispatch(c.Request().Context(), action, id)
	if err != nil {
		return errorFor(err, "file", id)
	}
	if res.Mutated {
		h.refreshRecordGauge(c.Request().Context())
	}
	return c.JSON(http.StatusOK, res)
}

type createFolderRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func (r *createFolderRequest) validate() error {
	if !fileutil.ValidName(r.Name) {
		return NewValidationError("name")
	}
	return nil
}

// HandleCreateFolder adds an empty folder inside path.
func (h *Handler) HandleCreateFolder(c echo.Context) error {
	var req createFolderRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	ctx := c.Request().Context()
	folder := storage.NewFolderRecord(strings.TrimSpace(req.Name), fileutil.NormalizeFolder(req.Path), h.now())
	if err := h.store.Append(ctx, folder); err != nil {
		return errorFor(err, "folder", folder.ID)
	}

	logging.Info("folder created", zap.String("id", folder.ID), zap.String("path", folder.Path))
	h.publisher.Publish(events.Event{Type: events.EventFileCreated, ID: folder.ID, Data: folder})
	h.refreshRecordGauge(ctx)
	return c.JSON(http.StatusCreated, folder)
}

// HandleBreadcrumbs returns the navigation trail for a path.
func (h *Handler) HandleBreadcrumbs(c echo.Context) error {
	return c.JSON(http.StatusOK, fileutil.Breadcrumbs(c.QueryParam("path")))
}

// HandleStats returns the file dashboard counters.
func (h *Handler) HandleStats(c echo.Context) error {
	records, err := h.store.List(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to list files", err)
	}
	return c.JSON(http.StatusOK, storage.ComputeStats(records, h.now(), h.quota))
}

func (h *Handler) refreshRecordGauge(ctx context.Context) {
	records, err := h.store.List(ctx)
	if err != nil {
		logging.Warn("counting records", zap.Error(err))
		return
	}
	metrics.SetRecords("files", len(records))
}

func wantsMsgpack(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), mimeMsgpack)
}
