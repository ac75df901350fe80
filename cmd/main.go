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

	"github.com/Dosada05/fixture-engine/config"
	"github.com/Dosada05/fixture-engine/db"
	_ "github.com/Dosada05/fixture-engine/docs"
	"github.com/Dosada05/fixture-engine/handlers"
	"github.com/Dosada05/fixture-engine/middleware"
	"github.com/Dosada05/fixture-engine/realtime"
	"github.com/Dosada05/fixture-engine/repositories"
	api "github.com/Dosada05/fixture-engine/routes"
	"github.com/Dosada05/fixture-engine/services"
	"github.com/Dosada05/fixture-engine/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"golang.org/x/time/rate"
)

// @title Fixture Engine API
// @version 1.0
// @description Bracket and schedule generation for knockout and round-robin fixtures.
// @BasePath /
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	version, err := db.Migrate(dbConn, cfg.MigrationsSource)
	if err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database schema up to date", slog.Uint64("version", uint64(version)))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Snapshot export is optional; without R2 settings brackets are only stored.
	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, cfg.R2)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2.BucketName))
	} else {
		logger.Info("Cloudflare R2 not configured, bracket snapshots disabled")
	}

	wsHub := realtime.NewHub()
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	fixtureRepo := repositories.NewPostgresFixtureRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	logger.Info("Repositories initialized")

	locks := services.NewFixtureLocks()
	fixtureService := services.NewFixtureService(fixtureRepo, participantRepo, matchRepo, standingRepo, logger)
	bracketService := services.NewBracketService(
		dbConn,
		fixtureRepo,
		participantRepo,
		matchRepo,
		uploader,
		wsHub,
		locks,
		logger,
	)
	standingsService := services.NewStandingsService(
		dbConn,
		fixtureRepo,
		participantRepo,
		matchRepo,
		standingRepo,
		wsHub,
		logger,
	)
	matchService := services.NewMatchService(
		dbConn,
		fixtureRepo,
		matchRepo,
		standingsService,
		wsHub,
		locks,
		logger,
	)
	teamService := services.NewTeamService(teamRepo, logger)
	logger.Info("Services initialized")

	scheduler, err := services.StartStandingsScheduler(standingsService, cfg.StandingsRefreshInterval, logger)
	if err != nil {
		logger.Error("failed to start standings scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Error("failed to stop standings scheduler", slog.Any("error", err))
		}
	}()
	logger.Info("standings scheduler started", slog.Duration("interval", cfg.StandingsRefreshInterval))

	fixtureHandler := handlers.NewFixtureHandler(fixtureService, bracketService, matchService, standingsService)
	participantHandler := handlers.NewParticipantHandler(fixtureService)
	matchHandler := handlers.NewMatchHandler(matchService)
	teamHandler := handlers.NewTeamHandler(teamService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		fixtureHandler,
		participantHandler,
		matchHandler,
		teamHandler,
		webSocketHandler,
		api.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			WriteLimiter:   middleware.NewRateLimiter(rate.Limit(cfg.WriteRateLimit), cfg.WriteRateBurst),
		},
	)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
