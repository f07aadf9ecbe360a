package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gencapp/genc/internal/logging"
	"github.com/gencapp/genc/internal/metrics"
	"github.com/gencapp/genc/pkg/models"
)

// Service handles webhook delivery and retry logic
type Service struct {
	client *http.Client
	repo   Repository
	log    *logging.Logger
}

// Repository defines the interface for webhook persistence
type Repository interface {
	GetWebhooksByEvent(ctx context.Context, uid, event string) ([]*models.Webhook, error)
	GetWebhook(ctx context.Context, id string) (*models.Webhook, error)
	CreateDelivery(ctx context.Context, delivery *models.WebhookDelivery) error
	UpdateDelivery(ctx context.Context, delivery *models.WebhookDelivery) error
	GetPendingDeliveries(ctx context.Context, limit int) ([]*models.WebhookDelivery, error)
}

// NewService creates a new webhook service
func NewService(repo Repository, log *logging.Logger) *Service {
	return &Service{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		repo: repo,
		log:  log,
	}
}

// Notify sends an event to every active webhook the user subscribed to it.
func (s *Service) Notify(ctx context.Context, uid, event string, data interface{}) error {
	webhooks, err := s.repo.GetWebhooksByEvent(ctx, uid, event)
	if err != nil {
		return fmt.Errorf("failed to get webhooks: %w", err)
	}

	payload := models.WebhookEvent{
		Event:     event,
		Timestamp: time.Now(),
		Data:      data,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	for _, webhook := range webhooks {
		if !webhook.IsActive {
			continue
		}

		delivery := &models.WebhookDelivery{
			ID:         uuid.New().String(),
			WebhookID:  webhook.ID,
			Event:      event,
			Payload:    string(payloadBytes),
			Status:     models.WebhookDeliveryStatusPending,
			RetryCount: 0,
			CreatedAt:  time.Now(),
		}

		if err := s.repo.CreateDelivery(ctx, delivery); err != nil {
			s.log.WithError(err).Error("Failed to create webhook delivery")
			continue
		}

		// Attempt immediate delivery in background
		go s.deliver(context.Background(), webhook, delivery, payloadBytes)
	}

	return nil
}

// NotifyTranscriptionCompleted fires when a video's transcript is ready.
func (s *Service) NotifyTranscriptionCompleted(ctx context.Context, video *models.Video) error {
	return s.Notify(ctx, video.UserID, models.WebhookEventTranscriptionCompleted, map[string]interface{}{
		"video_id":      video.ID,
		"collection_id": video.CollectionID,
		"platform":      video.Platform,
		"transcript":    video.Transcript,
	})
}

// NotifyTranscriptionFailed fires when transcription gave up on a video.
func (s *Service) NotifyTranscriptionFailed(ctx context.Context, video *models.Video, reason string) error {
	return s.Notify(ctx, video.UserID, models.WebhookEventTranscriptionFailed, map[string]interface{}{
		"video_id":      video.ID,
		"collection_id": video.CollectionID,
		"reason":        reason,
	})
}

// NotifyVideoAdded fires when a video lands in a collection.
func (s *Service) NotifyVideoAdded(ctx context.Context, video *models.Video) error {
	return s.Notify(ctx, video.UserID, models.WebhookEventVideoAdded, map[string]interface{}{
		"video_id":      video.ID,
		"collection_id": video.CollectionID,
		"url":           video.URL,
		"platform":      video.Platform,
	})
}

// deliver attempts to deliver a webhook
func (s *Service) deliver(ctx context.Context, webhook *models.Webhook, delivery *models.WebhookDelivery, payload []byte) {
	req, err := http.NewRequestWithContext(ctx, "POST", webhook.URL, bytes.NewReader(payload))
	if err != nil {
		s.markDeliveryFailed(ctx, delivery, 0, fmt.Sprintf("Failed to create request: %v", err))
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "GenC-Webhook/1.0")
	req.Header.Set("X-Webhook-Event", delivery.Event)
	req.Header.Set("X-Webhook-Delivery", delivery.ID)

	// Add HMAC signature if secret is configured
	if webhook.Secret != "" {
		signature := s.generateSignature(payload, webhook.Secret)
		req.Header.Set("X-Webhook-Signature", signature)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.markDeliveryFailed(ctx, delivery, 0, fmt.Sprintf("Failed to send request: %v", err))
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		delivery.Status = models.WebhookDeliveryStatusDelivered
		delivery.StatusCode = resp.StatusCode
		delivery.ResponseBody = string(body)
		now := time.Now()
		delivery.CompletedAt = &now

		metrics.RecordWebhookDelivery(models.WebhookDeliveryStatusDelivered)
		if err := s.repo.UpdateDelivery(ctx, delivery); err != nil {
			s.log.WithError(err).Error("Failed to update webhook delivery")
		}
	} else {
		s.markDeliveryFailed(ctx, delivery, resp.StatusCode, string(body))
	}
}

// markDeliveryFailed marks a delivery as failed and schedules retry
func (s *Service) markDeliveryFailed(ctx context.Context, delivery *models.WebhookDelivery, statusCode int, responseBody string) {
	delivery.StatusCode = statusCode
	delivery.ResponseBody = responseBody
	delivery.RetryCount++

	// Retry delays: 1min, 5min, 15min, 1hr, 4hr, 12hr
	retryDelays := []time.Duration{
		1 * time.Minute,
		5 * time.Minute,
		15 * time.Minute,
		1 * time.Hour,
		4 * time.Hour,
		12 * time.Hour,
	}

	if delivery.RetryCount <= len(retryDelays) {
		nextRetry := time.Now().Add(retryDelays[delivery.RetryCount-1])
		delivery.NextRetryAt = &nextRetry
		delivery.Status = models.WebhookDeliveryStatusPending
	} else {
		// Max retries exceeded
		delivery.Status = models.WebhookDeliveryStatusFailed
		now := time.Now()
		delivery.CompletedAt = &now
	}
	metrics.RecordWebhookDelivery(models.WebhookDeliveryStatusFailed)

	if err := s.repo.UpdateDelivery(ctx, delivery); err != nil {
		s.log.WithError(err).Error("Failed to update webhook delivery")
	}
}

// generateSignature generates HMAC-SHA256 signature for webhook payload
func (s *Service) generateSignature(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

// RetryWorker processes pending webhook deliveries
func (s *Service) RetryWorker(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.retryPendingDeliveries(ctx)
		}
	}
}

// retryPendingDeliveries retries pending webhook deliveries
func (s *Service) retryPendingDeliveries(ctx context.Context) {
	deliveries, err := s.repo.GetPendingDeliveries(ctx, 100)
	if err != nil {
		s.log.WithError(err).Error("Failed to get pending webhook deliveries")
		return
	}

	for _, delivery := range deliveries {
		// Skip if not ready for retry
		if delivery.NextRetryAt != nil && time.Now().Before(*delivery.NextRetryAt) {
			continue
		}

		webhook, err := s.repo.GetWebhook(ctx, delivery.WebhookID)
		if err != nil || webhook == nil || !webhook.IsActive {
			continue
		}

		go s.deliver(context.Background(), webhook, delivery, []byte(delivery.Payload))
	}
}
