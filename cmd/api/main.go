package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adopta-api/internal/adapters/auth/jwtauth"
	"adopta-api/internal/adapters/auth/odin"
	s3store "adopta-api/internal/adapters/media/s3"
	"adopta-api/internal/adapters/notify/logsink"
	"adopta-api/internal/adapters/notify/webhook"
	pg "adopta-api/internal/adapters/storage/postgres"
	"adopta-api/internal/config"
	"adopta-api/internal/platform/logger"
	"adopta-api/internal/platform/metrics"
	"adopta-api/internal/ports/auth"
	"adopta-api/internal/ports/media"
	"adopta-api/internal/ports/notify"
	"adopta-api/internal/router"

	"go.uber.org/zap"
)

// @title Adopta API
// @version 1.0
// @description Marketplace de adopción de animales entre protectoras y adoptantes.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Env: cfg.App.Env, App: cfg.App.Name})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	verifier, err := buildVerifier(cfg)
	if err != nil {
		return err
	}
	store, err := buildMediaStore(ctx, cfg)
	if err != nil {
		return err
	}
	sink, err := buildNotifier(cfg)
	if err != nil {
		return err
	}

	h := router.NewRouter(router.Options{
		Verifier:    verifier,
		DB:          db,
		Media:       store,
		MediaPrefix: cfg.Media.Prefix,
		Notifier:    sink,
		Logger:      log,
		Metrics:     metrics.New(cfg.App.Name),
		CORSOrigins: cfg.App.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("auth_mode", cfg.Auth.Mode),
			zap.Bool("postgres", db != nil),
			zap.Bool("media", store != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*sql.DB, error) {
	if cfg.DB.DSN == "" {
		log.Warn("DB_DSN not set, using in-memory storage")
		return nil, nil
	}
	db, err := pg.Open(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := pg.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// buildVerifier devuelve nil en modo dev (headers X-Debug-*).
func buildVerifier(cfg *config.Config) (auth.Verifier, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeJWT:
		return jwtauth.New(jwtauth.Config{
			Secret: cfg.Auth.JWTSecret,
			Issuer: cfg.Auth.JWTIssuer,
			TTL:    cfg.Auth.JWTTTL,
		})
	case config.AuthModeOdin:
		c, err := odin.NewClient(odin.Config{
			BaseURL:      cfg.Auth.OdinBaseURL,
			APIKey:       cfg.Auth.OdinAPIKey,
			APIKeyHeader: cfg.Auth.OdinAPIKeyHeader,
			Timeout:      cfg.Auth.OdinTimeout,
		})
		if err != nil {
			return nil, err
		}
		return odin.NewVerifier(c), nil
	default:
		return nil, nil
	}
}

func buildMediaStore(ctx context.Context, cfg *config.Config) (media.Store, error) {
	if cfg.Media.Bucket == "" {
		return nil, nil
	}
	return s3store.New(ctx, s3store.Config{
		Bucket:        cfg.Media.Bucket,
		Region:        cfg.Media.Region,
		Endpoint:      cfg.Media.Endpoint,
		PathStyle:     cfg.Media.PathStyle,
		PublicBaseURL: cfg.Media.PublicBaseURL,
	})
}

func buildNotifier(cfg *config.Config) (notify.Sink, error) {
	if cfg.Notify.WebhookURL == "" {
		return logsink.New(), nil
	}
	return webhook.New(cfg.Notify.WebhookURL, cfg.Notify.Timeout)
}
