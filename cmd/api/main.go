package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/PUZZ-INC/puzzle/internal/analytics"
	httptransport "github.com/PUZZ-INC/puzzle/internal/api/http"
	"github.com/PUZZ-INC/puzzle/internal/api/http/handlers"
	"github.com/PUZZ-INC/puzzle/internal/config"
	"github.com/PUZZ-INC/puzzle/internal/events"
	"github.com/PUZZ-INC/puzzle/internal/mailer"
	"github.com/PUZZ-INC/puzzle/internal/observability"
	"github.com/PUZZ-INC/puzzle/internal/persistence"
	"github.com/PUZZ-INC/puzzle/internal/repository"
	"github.com/PUZZ-INC/puzzle/internal/service"
	"github.com/PUZZ-INC/puzzle/internal/session"
	"github.com/PUZZ-INC/puzzle/internal/storage"
	"github.com/PUZZ-INC/puzzle/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rdb := persistence.NewRedis(cfg.Redis, logger)
	defer rdb.Close()

	sink := analytics.NewSink(ctx, cfg.ClickHouse, logger)
	defer sink.Close()

	blobs, err := storage.NewBlobStore(cfg.Upload)
	if err != nil {
		logger.Fatal("failed to init blob storage", zap.Error(err))
	}

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	verificationRepo := repository.NewVerificationRepository(pool)

	sessions := session.NewStore(rdb.Client, cfg.Session.TTL())
	sender := mailer.NewSMTPMailer(cfg.SMTP, cfg.App.BaseURL, logger)

	dispatcher := events.NewInMemoryDispatcher()
	telemetry := service.NewTelemetryService(sink, logger)
	worker.StartTelemetryWorker(dispatcher, telemetry, logger)

	signupService := service.NewSignupService(accountRepo, verificationRepo, sender, dispatcher, cfg.Verification, logger)
	authService := service.NewAuthService(accountRepo, dispatcher, logger)
	profileService := service.NewProfileService(accountRepo, dispatcher, logger)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 12 << 20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	sessionManager := handlers.NewSessionManager(sessions, profileService, cfg.Session)
	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rdb, sink, metrics)
	signupHandler := handlers.NewSignupHandler(signupService, sessionManager)
	authHandler := handlers.NewAuthHandler(authService, sessionManager)
	profileHandler := handlers.NewProfileHandler(profileService, blobs)
	analyticsHandler := handlers.NewAnalyticsHandler(sink)
	uploadHandler := handlers.NewUploadHandler(blobs, logger)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    healthHandler,
		Signup:    signupHandler,
		Auth:      authHandler,
		Profile:   profileHandler,
		Analytics: analyticsHandler,
		Upload:    uploadHandler,
		Sessions:  sessionManager,
	})

	if cfg.Upload.Driver == "local" || cfg.Upload.Driver == "" {
		app.Static(cfg.Upload.MediaURL, cfg.Upload.MediaDir)
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
