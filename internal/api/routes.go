// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"strings"

	"github.com/filedesk/backend/internal/events"
	"github.com/filedesk/backend/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store      storage.Store
	Uploads    UploadManager
	Documents  DocumentService
	Publisher  events.Publisher
	Events     EventSource
	QuotaBytes int64
	Version    string

	WebSocketMaxMessageKiB int
}

// Handlers holds all handler instances
type Handlers struct {
	Health    HealthHandler
	Files     FileHandler
	Uploads   UploadHandler
	Documents DocumentHandler
	WebSocket *WebSocketHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	h := NewHandler(deps)
	handlers := &Handlers{
		Health:    NewHealthHandler(deps.Version, deps.Uploads),
		Files:     h,
		Uploads:   h,
		Documents: h,
	}
	if deps.Events != nil {
		handlers.WebSocket = NewWebSocketHandler(deps.Events, deps.Uploads, deps.WebSocketMaxMessageKiB)
	}
	return handlers
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/api/health", handlers.Health.HandleHealth)

	// File manager routes
	files := e.Group("/api/files")
	files.GET("", handlers.Files.HandleListFiles)
	files.GET("/:id", handlers.Files.HandleGetFile)
	files.PUT("/:id", handlers.Files.HandleRenameFile)
	files.DELETE("/:id", handlers.Files.HandleDeleteFile)
	files.POST("/:id/open", handlers.Files.HandleOpenFile)
	files.POST("/:id/actions/:action", handlers.Files.HandleFileAction)

	e.POST("/api/folders", handlers.Files.HandleCreateFolder)
	e.GET("/api/breadcrumbs", handlers.Files.HandleBreadcrumbs)
	e.GET("/api/stats", handlers.Files.HandleStats)

	// Upload simulator routes
	uploads := e.Group("/api/uploads")
	uploads.POST("", handlers.Uploads.HandleStartUploads)
	uploads.GET("", handlers.Uploads.HandleListUploads)
	uploads.POST("/clear", handlers.Uploads.HandleClearCompleted)
	uploads.GET("/:id", handlers.Uploads.HandleGetUpload)
	uploads.DELETE("/:id", handlers.Uploads.HandleDismissUpload)
	uploads.GET("/:id/progress", handlers.Uploads.HandleUploadProgressStream)

	// Document manager routes
	docs := e.Group("/api/documents")
	docs.GET("", handlers.Documents.HandleListDocuments)
	docs.GET("/stats", handlers.Documents.HandleDocumentStats)
	docs.GET("/categories", handlers.Documents.HandleCategories)
	docs.POST("/upload", handlers.Documents.HandleUploadDocument)
	docs.GET("/:id", handlers.Documents.HandleGetDocument)
	docs.PUT("/:id", handlers.Documents.HandleUpdateDocument)
	docs.DELETE("/:id", handlers.Documents.HandleDeleteDocument)
}

// RegisterWebSocketRoutes registers WebSocket routes
func RegisterWebSocketRoutes(e *echo.Echo, handlers *Handlers) {
	if handlers.WebSocket == nil {
		return
	}
	e.GET("/api/ws/uploads", handlers.WebSocket.HandleWebSocket)
}

// MiddlewareOptions selects the optional middleware.
type MiddlewareOptions struct {
	Logger        *zap.Logger // nil disables request logging
	EnableMetrics bool
	EnableCORS    bool
	AllowOrigins  string // comma separated
	BodyLimit     string
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, opts MiddlewareOptions) {
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.Recover())
	if opts.EnableMetrics {
		e.Use(Metrics())
	}
	if opts.Logger != nil {
		e.Use(RequestLogger(opts.Logger))
	}
	if opts.EnableCORS {
		origins := strings.Split(opts.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}
}
