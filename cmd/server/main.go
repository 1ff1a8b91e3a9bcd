package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PurdueHackers/HelloWorldPortal2017/internal/adapter/blobstore"
	"github.com/PurdueHackers/HelloWorldPortal2017/internal/adapter/httpserver"
	"github.com/PurdueHackers/HelloWorldPortal2017/internal/adapter/mailer"
	"github.com/PurdueHackers/HelloWorldPortal2017/internal/adapter/postgres"
	"github.com/PurdueHackers/HelloWorldPortal2017/internal/app"
	"github.com/PurdueHackers/HelloWorldPortal2017/internal/platform/config"
	"github.com/PurdueHackers/HelloWorldPortal2017/internal/platform/logging"
)

const startupTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	blobs, err := blobstore.New(ctx, blobstore.Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		UseSSL:    cfg.S3UseSSL,
	})
	if err != nil {
		slog.Error("Failed to connect to object store", "error", err)
		os.Exit(1)
	}

	notifier := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)

	applicationRepo := postgres.NewApplicationRepo(pool)
	userRepo := postgres.NewUserRepo(pool)

	svc := app.NewService(applicationRepo, userRepo, blobs, notifier, cfg.ResumeURLTTL)

	healthChecks := []httpserver.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
	}

	srv := httpserver.NewServer(cfg, svc, userRepo, healthChecks)

	done := runGracefulShutdown(srv, svc)

	if err := srv.Start(); err != nil {
		slog.Info("Server stopped", "reason", err)
	}

	<-done
	slog.Info("Shutdown complete")
}

func runGracefulShutdown(srv *httpserver.Server, svc *app.Service) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		// Wait for in-flight confirmation emails.
		svc.Stop()

		close(done)
	}()

	return done
}
