package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filedesk/backend/internal/api"
	"github.com/filedesk/backend/internal/config"
	"github.com/filedesk/backend/internal/documents"
	"github.com/filedesk/backend/internal/events"
	"github.com/filedesk/backend/internal/logging"
	"github.com/filedesk/backend/internal/metrics"
	"github.com/filedesk/backend/internal/storage"
	"github.com/filedesk/backend/internal/upload"
	"github.com/filedesk/backend/internal/web"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if err := logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logging.Sync()
	log := logging.Named("server")

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	quota, err := cfg.QuotaBytes()
	if err != nil {
		return err
	}

	broadcaster := events.NewBroadcaster()

	uploadOpts := upload.Options{
		TickInterval: cfg.TickInterval(),
		Deadline:     cfg.Deadline(),
		MaxIncrement: cfg.Uploads.MaxIncrement,
		Publisher:    broadcaster,
	}
	if cfg.Uploads.EnforceLimits {
		maxSize, err := cfg.MaxFileSizeBytes()
		if err != nil {
			return err
		}
		uploadOpts.Validator = upload.LimitValidator(maxSize, cfg.AllowedExtensions())
	}
	uploads := upload.NewManager(uploadOpts)
	defer uploads.Close()

	docSeed, err := documents.DefaultSeed()
	if err != nil {
		return fmt.Errorf("loading document seed: %w", err)
	}
	docs := documents.NewService(docSeed, uploads, broadcaster)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	mwOpts := api.MiddlewareOptions{
		EnableMetrics: cfg.Metrics.Enabled,
		EnableCORS:    cfg.Server.EnableCORS,
		AllowOrigins:  cfg.Server.AllowOrigins,
		BodyLimit:     cfg.Server.BodyLimit,
	}
	if cfg.Logging.EnableRequestLogging {
		mwOpts.Logger = logging.Named("http")
	}
	api.SetupMiddleware(e, mwOpts)

	handlers := api.NewHandlers(&api.Dependencies{
		Store:                  store,
		Uploads:                uploads,
		Documents:              docs,
		Publisher:              broadcaster,
		Events:                 broadcaster,
		QuotaBytes:             quota,
		Version:                Version,
		WebSocketMaxMessageKiB: cfg.Server.WebSocketMaxMessageKiB,
	})
	api.RegisterRoutes(e, handlers)
	api.RegisterWebSocketRoutes(e, handlers)

	if cfg.Metrics.Enabled {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(metrics.Handler()))
	}

	if web.HasEmbeddedFiles() {
		if err := web.RegisterStaticRoutes(e); err != nil {
			log.Warn("failed to register static routes", zap.Error(err))
		}
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting server",
		zap.String("version", Version),
		zap.String("buildTime", BuildTime),
		zap.String("addr", s.Addr),
		zap.String("config", configPath),
		zap.String("backend", cfg.Storage.Backend),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return uploads.RunCleanup(gctx, cfg.CleanupInterval(), cfg.CleanupDelay())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore builds the configured record store and seeds it when empty.
func openStore(ctx context.Context, cfg *config.AppConfig) (storage.Store, error) {
	seed, err := storage.LoadSeed(cfg.Storage.SeedFile)
	if err != nil {
		return nil, err
	}

	switch cfg.Storage.Backend {
	case config.BackendDuckDB:
		store, err := storage.NewDuckStore(cfg.Storage.DuckDBPath, cfg.Storage.DuckDBThreads)
		if err != nil {
			return nil, fmt.Errorf("opening duckdb store: %w", err)
		}
		existing, err := store.List(ctx)
		if err != nil {
			store.Close()
			return nil, err
		}
		if len(existing) == 0 {
			if err := store.Append(ctx, seed...); err != nil {
				store.Close()
				return nil, fmt.Errorf("seeding duckdb store: %w", err)
			}
		}
		return store, nil
	default:
		return storage.NewMemoryStore(seed...)
	}
}
