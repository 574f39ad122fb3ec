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

	"github.com/Dosada05/versusite/brackets"
	"github.com/Dosada05/versusite/config"
	"github.com/Dosada05/versusite/db"
	"github.com/Dosada05/versusite/handlers"
	"github.com/Dosada05/versusite/middleware"
	"github.com/Dosada05/versusite/realtime"
	"github.com/Dosada05/versusite/repositories"
	api "github.com/Dosada05/versusite/routes"
	"github.com/Dosada05/versusite/services"
	"github.com/Dosada05/versusite/storage"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const (
	janitorInterval = time.Minute // How often idle sessions are evicted
	visitorIdle     = 10 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("database_driver", cfg.DatabaseDriver),
		slog.Bool("export_enabled", cfg.ExportEnabled()),
	)

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(ctx, dbConn); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database ready")

	// Загрузчик экспортов (Cloudflare R2), если настроен
	var uploader storage.FileUploader
	if cfg.ExportEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	wsHub := realtime.NewHub(logger)

	catalogRepo := repositories.NewCatalogRepository(dbConn, repositories.DialectFor(cfg.DatabaseDriver))

	generator := brackets.NewSingleEliminationGenerator()
	catalogService := services.NewCatalogService(catalogRepo, uploader, brackets.UUIDGenerator{}, logger)
	sessionService := services.NewSessionService(
		generator,
		catalogService,
		services.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL),
		wsHub,
		cfg.SessionTTL,
		logger,
	)
	logger.Info("services initialized")

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{AllowedOrigins: cfg.CORSAllowedOrigins, RateLimiter: limiter},
		handlers.NewCatalogHandler(catalogService),
		handlers.NewTournamentHandler(sessionService),
		handlers.NewWebSocketHandler(wsHub, sessionService, cfg.CORSAllowedOrigins, logger),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return wsHub.Run(gctx)
	})

	g.Go(func() error {
		return sessionService.RunJanitor(gctx, janitorInterval)
	})

	g.Go(func() error {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				limiter.Cleanup(visitorIdle)
			}
		}
	})

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			// If shutdown fails, force close.
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
		return nil
	})

	return g.Wait()
}
