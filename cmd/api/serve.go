package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/starter-api/backend/internal/cache"
	"github.com/starter-api/backend/internal/config"
	"github.com/starter-api/backend/internal/database"
	"github.com/starter-api/backend/internal/docs"
	"github.com/starter-api/backend/internal/handler"
	"github.com/starter-api/backend/internal/logging"
	"github.com/starter-api/backend/internal/repo"
	"github.com/starter-api/backend/internal/router"
	"github.com/starter-api/backend/internal/service"
	"github.com/starter-api/backend/internal/session"
	"github.com/starter-api/backend/internal/throttle"
	"github.com/starter-api/backend/spec"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  serve,
}

func serve(cmd *cobra.Command, _ []string) error {
	// Signal handling: the first SIGINT or SIGTERM starts a graceful shutdown.
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateProduction(); err != nil {
		return err
	}

	// --- Logger -----------------------------------------------------------
	logs, err := logging.New(cfg.Logging, logging.WithAttr(slog.String("version", Version)))
	if err != nil {
		return err
	}
	defer logs.Close()
	slog.SetDefault(logs.Root())
	log := logs.Logger(logging.App)
	log.Info("configuration loaded", "environment", cfg.Environment, "debug", cfg.Security.Debug)

	// --- Database ---------------------------------------------------------
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("database close error", "error", err)
		}
	}()
	log.Info("database connection established", "engine", cfg.Database.Type)

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(ctx, db, logs.Logger(logging.DB)); err != nil {
			return err
		}
	}

	checks := []handler.Check{{Name: "database", Fn: database.Healthcheck(db)}}

	// --- Cache ------------------------------------------------------------
	// Redis backs sessions when SESSION_ENGINE=cache, and the throttle
	// counters whenever it is connected. Without it both stay in memory.
	var client *redis.Client
	if cfg.Sessions.Engine == "cache" {
		client, err = cache.Connect(ctx, cfg.Cache)
		if err != nil {
			return err
		}
		defer client.Close()
		checks = append(checks, handler.Check{Name: "cache", Fn: cache.Healthcheck(client)})
		log.Info("cache connection established", "location", cfg.Cache.Location())
	}

	var (
		sessionStore  session.Store  = session.NewMemoryStore()
		throttleStore throttle.Store = throttle.NewMemoryStore()
	)
	if client != nil {
		throttleStore = throttle.NewRedisStore(client)
		if cfg.Sessions.Engine == "cache" {
			sessionStore = session.NewCacheStore(cache.New(client, cfg.Cache, log))
		}
	}

	throttler, err := throttle.New(throttleStore, cfg.REST, log)
	if err != nil {
		return err
	}

	// --- Services ---------------------------------------------------------
	categoryRepo := repo.NewCategoryRepo(db, db.Dialect)
	productRepo := repo.NewProductRepo(db, db.Dialect)

	srv := handler.NewServer(
		service.NewCategoryService(categoryRepo),
		service.NewProductService(productRepo, categoryRepo),
		handler.Options{
			PageSize: cfg.REST.PageSize,
			Pretty:   cfg.REST.Browsable(),
			TimeZone: cfg.TimeZone.TimeZone,
			Checks:   checks,
			Logger:   log,
		},
	)

	var doc *docs.Document
	if cfg.InstalledApps.Has("docs") {
		if doc, err = docs.Build(spec.OpenAPI, cfg.Documentation); err != nil {
			return err
		}
	}

	// --- Router -----------------------------------------------------------
	h, err := router.New(router.Deps{
		Settings:      cfg,
		Server:        srv,
		Sessions:      session.NewManager(sessionStore, cfg.Sessions, log),
		Throttle:      throttler,
		Docs:          doc,
		Logger:        logs.Logger(logging.HTTPRequest),
		RequestLogger: logs.Logger(logging.HTTPRequest),
	})
	if err != nil {
		return err
	}

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return runServer(ctx, httpSrv, cfg.Server.ShutdownTimeout, log)
}

// runServer serves until ctx is done or the listener fails, then shuts srv
// down. A listener failure is returned so the process exits non-zero.
func runServer(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown initiated")
	case serveErr = <-errCh:
		log.Error("server error", "error", serveErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", "error", err)
	}

	log.Info("shutdown complete")
	if serveErr != nil {
		return fmt.Errorf("serve: %w", serveErr)
	}
	return nil
}
