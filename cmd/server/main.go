package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/connectly/backend/internal/cache"
	"github.com/anonto42/connectly/backend/internal/router"
	"github.com/anonto42/connectly/backend/internal/storage"
	"github.com/anonto42/connectly/backend/pkg/config"
	"github.com/anonto42/connectly/backend/pkg/firebase"
	"github.com/anonto42/connectly/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.InitLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.CloseDB()

	blobs, err := newBlobStore(ctx, cfg, db)
	if err != nil {
		return fmt.Errorf("failed to initialize media backend: %w", err)
	}

	opts := router.Options{
		Store:          db.Store(),
		Blobs:          blobs,
		Env:            cfg.Env,
		TokenSecret:    cfg.TokenSecret,
		TokenTTL:       cfg.TokenTTL,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	rdb, err := config.InitRedis(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		opts.TokenCache = cache.NewCredentialCache(rdb, 0)
		logger.Info("Redis credential cache enabled.")
	}

	if cfg.FirebaseCredentialsPath != "" {
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return err
		}
		opts.Identity = app
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.Server.ReadHeaderTimeout = 10 * time.Second
	config.SetupMiddleware(e, logger)
	router.SetupRoutes(e, opts)

	metrics := echo.New()
	metrics.HideBanner = true
	metrics.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	errs := make(chan error, 2)
	go serve(errs, e, ":"+cfg.Port, "api")
	go serve(errs, metrics, ":"+cfg.MetricsPort, "metrics")

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errs:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return errors.Join(e.Shutdown(shutdownCtx), metrics.Shutdown(shutdownCtx))
}

func serve(errs chan<- error, e *echo.Echo, addr, name string) {
	slog.Info("server starting", "server", name, "addr", addr)
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs <- fmt.Errorf("%s server: %w", name, err)
	}
}

func newBlobStore(ctx context.Context, cfg *config.Config, db *config.DB) (storage.BlobStore, error) {
	switch cfg.MediaBackend {
	case config.MediaGridFS:
		return storage.NewGridFSStore(db.Database)
	case config.MediaS3:
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	}
	return storage.NewLocalStore(cfg.UploadsDir)
}
