package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JonMunkholm/csvmanager/internal/config"
	"github.com/JonMunkholm/csvmanager/internal/core"
	"github.com/JonMunkholm/csvmanager/internal/logging"
	"github.com/JonMunkholm/csvmanager/internal/storage"
	"github.com/JonMunkholm/csvmanager/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Values already in the environment win over .env
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()
	store, closeStore, err := storage.New(ctx, storage.Config{
		Backend: cfg.Storage.Backend,
		S3: storage.S3Config{
			AccountID:       cfg.Storage.AccountID,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			UseSSL:          cfg.Storage.UseSSL,
			PresignExpiry:   cfg.Storage.PresignExpiry,
		},
		DatabaseURL:   cfg.Storage.DatabaseURL,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
		Retention:     cfg.Storage.Retention,
	})
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	if p, ok := store.(storage.Pinger); ok {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := p.Ping(pingCtx); err != nil {
			slog.Warn("object store not reachable, uploads may fail", "error", err)
		}
		cancel()
	}

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	if p, ok := store.(storage.Purger); ok {
		go storage.RunSweeper(jobCtx, p, cfg.Storage.SweepInterval)
	}

	// Only backends that keep bytes themselves serve /api/files.
	opener, _ := store.(storage.Opener)

	limiter := core.NewLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)
	service := core.NewService(store, limiter)
	server := web.NewServer(service, opener, cfg)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if st := service.LimiterStatus(); st.Active > 0 {
			slog.Info("waiting for uploads and exports to complete", "active", st.Active)
			if err := service.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("work did not complete in time", "error", err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr(), "env", cfg.Env)
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		closeStore()
		os.Exit(1)
	}
	slog.Info("server stopped")
}
