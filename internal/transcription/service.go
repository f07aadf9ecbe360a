package transcription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/internal/logging"
	"github.com/gencapp/genc/internal/metrics"
	"github.com/gencapp/genc/internal/queue"
	"github.com/gencapp/genc/pkg/models"
)

// Store is the persistence surface the service needs.
type Store interface {
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	UpdateTranscriptionStatus(ctx context.Context, id, status string) error
	SaveTranscription(ctx context.Context, id string, res database.TranscriptionResult) error
	ListPendingTranscriptions(ctx context.Context, olderThan time.Time, limit int) ([]*models.Video, error)
}

// Transcriber produces transcripts and component analysis.
type Transcriber interface {
	TranscribeVideoURL(ctx context.Context, videoURL string) (string, error)
	AnalyzeComponents(ctx context.Context, transcript string) (*models.ScriptComponents, error)
}

// JobQueue publishes and retries transcription jobs.
type JobQueue interface {
	PublishJob(ctx context.Context, job *models.TranscriptionJob) error
	PublishToRetryQueue(ctx context.Context, job *models.TranscriptionJob) error
}

// Notifier fires webhook events for transcription outcomes.
type Notifier interface {
	NotifyTranscriptionCompleted(ctx context.Context, video *models.Video) error
	NotifyTranscriptionFailed(ctx context.Context, video *models.Video, reason string) error
}

// Refunder returns credits for actions that terminally failed.
type Refunder interface {
	Refund(ctx context.Context, uid string, action models.ActionKind) error
}

// Service coordinates async video transcription.
type Service struct {
	store    Store
	ai       Transcriber
	queue    JobQueue
	notifier Notifier
	credits  Refunder
	log      *logging.Logger
}

// NewService creates a transcription Service.
func NewService(store Store, ai Transcriber, queue JobQueue, notifier Notifier, credits Refunder, log *logging.Logger) *Service {
	return &Service{
		store:    store,
		ai:       ai,
		queue:    queue,
		notifier: notifier,
		credits:  credits,
		log:      log,
	}
}

// Enqueue queues a video for transcription. uid is the account that was
// charged for the job; a terminal failure refunds that ledger, which may
// differ from the video owner when a scoped user re-transcribes.
func (s *Service) Enqueue(ctx context.Context, video *models.Video, uid string) error {
	job := &models.TranscriptionJob{
		ID:        uuid.New().String(),
		VideoID:   video.ID,
		UserID:    uid,
		VideoURL:  video.URL,
		Platform:  video.Platform,
		CreatedAt: time.Now(),
	}

	if err := s.queue.PublishJob(ctx, job); err != nil {
		return fmt.Errorf("failed to enqueue transcription: %w", err)
	}

	if err := s.store.UpdateTranscriptionStatus(ctx, video.ID, models.TranscriptionStatusPending); err != nil {
		s.log.WithError(err).WithVideoID(video.ID).Warn("Failed to mark video pending")
	}

	metrics.TranscriptionJobsEnqueued.Inc()
	return nil
}

// ProcessJob handles one job from the queue. Returning an error nacks the
// message; retry scheduling happens through the retry queue instead, so the
// handler only errors on malformed jobs.
func (s *Service) ProcessJob(ctx context.Context, job *models.TranscriptionJob) error {
	log := s.log.WithVideoID(job.VideoID).WithUID(job.UserID)

	video, err := s.store.GetVideo(ctx, job.VideoID)
	if err != nil {
		// Video deleted between enqueue and processing: drop the job.
		log.WithError(err).Warn("Skipping transcription for missing video")
		return nil
	}

	if err := s.store.UpdateTranscriptionStatus(ctx, video.ID, models.TranscriptionStatusProcessing); err != nil {
		log.WithError(err).Warn("Failed to mark video processing")
	}

	start := time.Now()
	transcript, err := s.ai.TranscribeVideoURL(ctx, job.VideoURL)
	if err != nil {
		metrics.GeminiCallsTotal.WithLabelValues("transcribe", "error").Inc()
		s.handleFailure(ctx, video, job, err)
		return nil
	}
	metrics.GeminiCallsTotal.WithLabelValues("transcribe", "success").Inc()
	metrics.GeminiCallDuration.WithLabelValues("transcribe").Observe(time.Since(start).Seconds())

	result := database.TranscriptionResult{Transcript: transcript}

	// Component analysis is best-effort: a transcript without the
	// hook/bridge breakdown is still worth saving.
	components, err := s.ai.AnalyzeComponents(ctx, transcript)
	if err != nil {
		log.WithError(err).Warn("Component analysis failed")
	} else {
		result.Components = components
	}

	if err := s.store.SaveTranscription(ctx, video.ID, result); err != nil {
		s.handleFailure(ctx, video, job, fmt.Errorf("failed to save transcription: %w", err))
		return nil
	}

	video.Transcript = transcript
	if err := s.notifier.NotifyTranscriptionCompleted(ctx, video); err != nil {
		log.WithError(err).Warn("Failed to fire completion webhook")
	}

	metrics.TranscriptionJobsProcessed.WithLabelValues("success").Inc()
	log.LogTranscriptionEvent(video.ID, "process_job", models.TranscriptionStatusCompleted)
	return nil
}

// handleFailure schedules a retry, or finalizes the failure once the
// retry budget is spent.
func (s *Service) handleFailure(ctx context.Context, video *models.Video, job *models.TranscriptionJob, cause error) {
	log := s.log.WithVideoID(job.VideoID).WithError(cause)

	if err := s.queue.PublishToRetryQueue(ctx, job); err != nil {
		log.WithError(err).Error("Failed to schedule transcription retry")
	}

	// PublishToRetryQueue moves exhausted jobs to the DLQ; the terminal
	// bookkeeping happens here once the count passes the budget.
	if job.RetryCount < queue.MaxRetries {
		log.Warn("Transcription failed, retry scheduled")
		return
	}

	if err := s.store.UpdateTranscriptionStatus(ctx, video.ID, models.TranscriptionStatusFailed); err != nil {
		log.WithError(err).Error("Failed to mark video failed")
	}

	if err := s.credits.Refund(ctx, job.UserID, models.ActionTranscription); err != nil {
		log.WithError(err).Error("Failed to refund transcription credit")
	}

	if err := s.notifier.NotifyTranscriptionFailed(ctx, video, cause.Error()); err != nil {
		log.WithError(err).Warn("Failed to fire failure webhook")
	}

	metrics.TranscriptionJobsProcessed.WithLabelValues("failed").Inc()
	log.LogTranscriptionEvent(video.ID, "process_job", models.TranscriptionStatusFailed)
}

// Backfill re-enqueues videos stuck in pending, e.g. after a worker crash
// or a queue outage. Returns the number of videos re-enqueued.
func (s *Service) Backfill(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	videos, err := s.store.ListPendingTranscriptions(ctx, time.Now().Add(-olderThan), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending transcriptions: %w", err)
	}

	count := 0
	for _, video := range videos {
		if err := s.Enqueue(ctx, video, video.UserID); err != nil {
			s.log.WithError(err).WithVideoID(video.ID).Error("Backfill enqueue failed")
			continue
		}
		count++
	}

	if count > 0 {
		s.log.WithField("count", count).Info("Re-enqueued stuck transcriptions")
	}

	return count, nil
}
