package main

import (
	"context"
	"docmanager/internal/app"
	"docmanager/internal/config"
	"docmanager/internal/http/server"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

const (
	envDev   = "dev"
	envProd  = "prod"
	envLocal = "local"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting application", "env", cfg.Env)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, err := app.NewApp(ctx, log, cfg)
	if err != nil {
		log.Error("failed to init app", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("failed to close app", slog.String("error", err.Error()))
		}
	}()

	application.Scheduler.Start(ctx)
	defer application.Scheduler.Stop()

	err = server.StartServer(ctx, &cfg.HTTPServer, log, server.Deps{
		Documents: application.DocumentService,
		Auth:      application.AuthService,
		Tags:      application.TagService,
		Audit:     application.AuditService,
		Users:     application.UserService,
		Metrics:   application.Metrics,
		MaxUpload: application.MaxUpload,
	})
	if err != nil {
		log.Error("failed to start server", "error", err)
		cancel()
		application.Scheduler.Stop()
		_ = application.Close()
		os.Exit(1)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return log
}
