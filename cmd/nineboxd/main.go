// Command nineboxd is the ninebox review service.
// It serves the scoring and assessment API, Prometheus metrics and a health check.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ninebox/ninebox/internal/api"
	"github.com/ninebox/ninebox/internal/blob"
	"github.com/ninebox/ninebox/internal/cache"
	"github.com/ninebox/ninebox/internal/logger"
	"github.com/ninebox/ninebox/internal/platform"
	"github.com/ninebox/ninebox/internal/records"
	"github.com/ninebox/ninebox/internal/review"
	"github.com/ninebox/ninebox/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: search ninebox.yaml)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "nineboxd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, health, closeRepo, err := openRepository(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	storage, err := blob.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	recordCache, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	svc := review.NewService(repo, storage,
		review.WithCache(recordCache),
		review.WithLogger(log.WithFields(logger.Fields{"component": "review"})),
		review.WithConcurrency(cfg.Batch.Concurrency),
	)

	handler := api.NewHandler(svc, api.Options{
		APIKey: cfg.Server.APIKey,
		CORS:   cfg.Server.CORS,
		Logger: log.WithFields(logger.Fields{"component": "api"}),
		Health: health,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting nineboxd", logger.Fields{
			"port":    cfg.Server.Port,
			"storage": cfg.Storage.Backend,
			"cache":   cfg.Cache.Backend,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openRepository returns the Postgres repository when a database URL is
// configured and the in-memory repository otherwise.
func openRepository(ctx context.Context, cfg config.DatabaseConfig, log logger.Logger) (records.Repository, api.HealthCheck, func(), error) {
	if cfg.URL == "" {
		log.Warn("no database url configured; records are kept in memory", nil)
		return records.NewMemoryRepository(), nil, func() {}, nil
	}

	db, err := platform.OpenPostgres(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	if cfg.AutoMigrate {
		version, err := platform.AutoMigrate(db)
		if err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("database migrated", logger.Fields{"version": version})
	}

	health := func(ctx context.Context) error { return db.PingContext(ctx) }
	closeFn := func() { closeDB(db, log) }
	return records.NewPostgresRepository(db), health, closeFn, nil
}

func closeDB(db *sql.DB, log logger.Logger) {
	if err := db.Close(); err != nil {
		log.WithError(err).Warn("close database", nil)
	}
}
