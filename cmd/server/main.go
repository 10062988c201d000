package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/yvishwas40/Whatsapp-Visualizer/internal/api"
	"github.com/yvishwas40/Whatsapp-Visualizer/internal/assets"
	"github.com/yvishwas40/Whatsapp-Visualizer/internal/config"
	"github.com/yvishwas40/Whatsapp-Visualizer/internal/events"
	"github.com/yvishwas40/Whatsapp-Visualizer/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("chat server starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready")

	// Upload directory
	assetStore, err := assets.NewStore(cfg.UploadDir)
	if err != nil {
		slog.Error("failed to prepare upload dir", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}
	slog.Info("upload dir ready", "dir", cfg.UploadDir)

	// NATS (optional — the server works without it, just no events)
	var publisher api.EventPublisher
	if cfg.NatsURL != "" {
		p, err := events.NewPublisher(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer p.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
		publisher = p
	} else {
		slog.Warn("NATS not configured — running without ingest events")
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, db, assetStore, publisher, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("chat server ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("chat server stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
