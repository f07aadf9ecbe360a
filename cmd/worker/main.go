package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gencapp/genc/internal/config"
	"github.com/gencapp/genc/internal/credits"
	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/internal/gemini"
	"github.com/gencapp/genc/internal/logging"
	"github.com/gencapp/genc/internal/metrics"
	"github.com/gencapp/genc/internal/queue"
	"github.com/gencapp/genc/internal/transcription"
	"github.com/gencapp/genc/internal/webhook"
	"github.com/gencapp/genc/pkg/models"
)

const backfillAge = 10 * time.Minute

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

	// Initialize database
	db, err := database.New(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	repo := database.NewRepository(db)

	// Initialize queue
	q, err := queue.New(cfg.Queue)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to queue")
	}
	defer q.Close()

	if err := q.SetupDeadLetterQueue(); err != nil {
		logger.WithError(err).Fatal("Failed to set up dead letter queue")
	}

	// Initialize Gemini
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ai, err := gemini.New(ctx, cfg.Gemini, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize Gemini client")
	}

	// Wire up services
	creditSvc := credits.NewService(repo, logger)
	webhookSvc := webhook.NewService(repo, logger)
	transcriptions := transcription.NewService(repo, ai, q, webhookSvc, creditSvc, logger)

	go webhookSvc.RetryWorker(ctx)

	// Metrics server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.WithError(err).Error("Metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	// Queue depth gauge
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if depth, err := q.GetQueueDepth(); err == nil {
					metrics.TranscriptionQueueDepth.Set(float64(depth))
				}
			}
		}
	}()

	// Re-enqueue videos stuck in pending
	go func() {
		ticker := time.NewTicker(cfg.Worker.BackfillEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := transcriptions.Backfill(ctx, backfillAge, 100)
				if err != nil {
					logger.WithError(err).Error("Backfill failed")
					continue
				}
				if n > 0 {
					logger.WithField("count", n).Info("Re-enqueued stuck transcriptions")
				}
			}
		}
	}()

	// Roll over lapsed credit periods
	go func() {
		ticker := time.NewTicker(cfg.Worker.ResetCheckEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := repo.ResetExpiredPeriods(ctx, time.Now())
				if err != nil {
					logger.WithError(err).Error("Credit period reset failed")
					continue
				}
				if n > 0 {
					logger.WithField("count", n).Info("Reset expired credit periods")
				}
			}
		}
	}()

	// Handle shutdown gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down worker gracefully...")
		cancel()
	}()

	// Job handler
	jobHandler := func(job *models.TranscriptionJob) error {
		logger.WithField("job_id", job.ID).WithVideoID(job.VideoID).Info("Processing transcription job")

		if err := transcriptions.ProcessJob(ctx, job); err != nil {
			logger.WithError(err).WithField("job_id", job.ID).Error("Failed to process job")
			return err
		}

		return nil
	}

	// Start consuming jobs
	logger.Info("Worker started, waiting for jobs...")
	if err := q.ConsumeJobs(ctx, cfg.Worker.Concurrency, jobHandler); err != nil {
		logger.WithError(err).Fatal("Failed to consume jobs")
	}

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("Worker stopped")
}
