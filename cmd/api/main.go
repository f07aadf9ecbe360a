package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gencapp/genc/internal/bunny"
	"github.com/gencapp/genc/internal/cache"
	"github.com/gencapp/genc/internal/config"
	"github.com/gencapp/genc/internal/credits"
	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/internal/gemini"
	"github.com/gencapp/genc/internal/logging"
	"github.com/gencapp/genc/internal/metrics"
	"github.com/gencapp/genc/internal/middleware"
	"github.com/gencapp/genc/internal/queue"
	"github.com/gencapp/genc/internal/rbac"
	"github.com/gencapp/genc/internal/storage"
	"github.com/gencapp/genc/internal/tracing"
	"github.com/gencapp/genc/internal/transcription"
	"github.com/gencapp/genc/internal/webhook"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize tracing
	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize tracing")
		} else {
			defer closer.Close()
		}
	}

	// Initialize database
	db, err := database.New(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	repo := database.NewRepository(db)

	// Initialize cache
	redis, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to redis")
	}
	defer redis.Close()

	// Initialize queue
	q, err := queue.New(cfg.Queue)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to queue")
	}
	defer q.Close()

	if err := q.SetupDeadLetterQueue(); err != nil {
		logger.WithError(err).Fatal("Failed to set up dead letter queue")
	}

	// Initialize object storage
	stor, err := storage.New(cfg.Storage)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize storage")
	}

	// Initialize Gemini
	ctx := context.Background()
	ai, err := gemini.New(ctx, cfg.Gemini, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize Gemini client")
	}

	// Wire up services
	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, repo)
	resolver := rbac.NewResolver(repo, redis, logger)
	query := rbac.NewQuery(resolver, repo)
	creditSvc := credits.NewService(repo, logger)
	webhookSvc := webhook.NewService(repo, logger)
	transcriptions := transcription.NewService(repo, ai, q, webhookSvc, creditSvc, logger)
	stream := bunny.NewStreamClient(cfg.Bunny)

	// Webhook retry loop
	retryCtx, cancelRetry := context.WithCancel(ctx)
	defer cancelRetry()
	go webhookSvc.RetryWorker(retryCtx)

	api := &API{
		repo:           repo,
		resolver:       resolver,
		query:          query,
		credits:        creditSvc,
		ai:             ai,
		transcriptions: transcriptions,
		storage:        stor,
		stream:         stream,
		notifier:       webhookSvc,
		auth:           auth,
		db:             db,
		cache:          redis,
		jobs:           q,
		log:            logger,
		cdnHostname:    cfg.Bunny.CDNHostname,
	}

	// Metrics server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.WithError(err).Error("Metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	router := setupRouter(api, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.WithField("addr", addr).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}
