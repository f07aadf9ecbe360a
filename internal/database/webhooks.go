package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gencapp/genc/pkg/models"
)

const webhookColumns = `id, user_id, url, events, secret, is_active, created_at, updated_at`

// eventFieldNames maps webhook event types to their jsonb flag names
var eventFieldNames = map[string]string{
	models.WebhookEventTranscriptionCompleted: "transcription_completed",
	models.WebhookEventTranscriptionFailed:    "transcription_failed",
	models.WebhookEventVideoAdded:             "video_added",
}

func scanWebhook(row pgx.Row) (*models.Webhook, error) {
	var w models.Webhook
	err := row.Scan(
		&w.ID, &w.UserID, &w.URL, &w.Events, &w.Secret,
		&w.IsActive, &w.CreatedAt, &w.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan webhook: %w", err)
	}
	return &w, nil
}

// CreateWebhook creates a new webhook configuration
func (r *Repository) CreateWebhook(ctx context.Context, w *models.Webhook) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	if w.Secret == "" {
		w.Secret = uuid.New().String()
	}

	query := `
		INSERT INTO webhooks (id, user_id, url, events, secret, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		w.ID, w.UserID, w.URL, w.Events, w.Secret, w.IsActive,
	).Scan(&w.CreatedAt, &w.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create webhook: %w", err)
	}

	return nil
}

// ListWebhooksForUser retrieves a user's webhook configurations
func (r *Repository) ListWebhooksForUser(ctx context.Context, uid string) ([]*models.Webhook, error) {
	query := `
		SELECT ` + webhookColumns + `
		FROM webhooks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	defer rows.Close()

	var webhooks []*models.Webhook
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, err
		}
		webhooks = append(webhooks, w)
	}

	return webhooks, rows.Err()
}

// GetWebhooksByEvent retrieves a user's active webhooks subscribed to an event
func (r *Repository) GetWebhooksByEvent(ctx context.Context, uid, event string) ([]*models.Webhook, error) {
	field, ok := eventFieldNames[event]
	if !ok {
		return nil, fmt.Errorf("unknown webhook event: %s", event)
	}

	query := `
		SELECT ` + webhookColumns + `
		FROM webhooks
		WHERE user_id = $1 AND is_active = true AND events ->> $2 = 'true'
	`

	rows, err := r.db.Pool.Query(ctx, query, uid, field)
	if err != nil {
		return nil, fmt.Errorf("failed to get webhooks by event: %w", err)
	}
	defer rows.Close()

	var webhooks []*models.Webhook
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, err
		}
		webhooks = append(webhooks, w)
	}

	return webhooks, rows.Err()
}

// DeleteWebhook removes a webhook configuration
func (r *Repository) DeleteWebhook(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM webhooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateDelivery records a webhook delivery attempt
func (r *Repository) CreateDelivery(ctx context.Context, d *models.WebhookDelivery) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}

	query := `
		INSERT INTO webhook_deliveries (id, webhook_id, event, payload, status, retry_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		d.ID, d.WebhookID, d.Event, d.Payload, d.Status, d.RetryCount,
	).Scan(&d.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create delivery: %w", err)
	}

	return nil
}

// UpdateDelivery stores the outcome of a delivery attempt
func (r *Repository) UpdateDelivery(ctx context.Context, d *models.WebhookDelivery) error {
	query := `
		UPDATE webhook_deliveries
		SET status = $2, status_code = $3, response_body = $4,
		    retry_count = $5, next_retry_at = $6, completed_at = $7
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query,
		d.ID, d.Status, d.StatusCode, d.ResponseBody,
		d.RetryCount, d.NextRetryAt, d.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update delivery: %w", err)
	}

	return nil
}

// GetPendingDeliveries returns deliveries due for a retry
func (r *Repository) GetPendingDeliveries(ctx context.Context, limit int) ([]*models.WebhookDelivery, error) {
	query := `
		SELECT id, webhook_id, event, payload, status, status_code, response_body,
		       retry_count, next_retry_at, created_at, completed_at
		FROM webhook_deliveries
		WHERE status = $1 AND (next_retry_at IS NULL OR next_retry_at <= NOW())
		ORDER BY created_at
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, models.WebhookDeliveryStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []*models.WebhookDelivery
	for rows.Next() {
		var d models.WebhookDelivery
		err := rows.Scan(
			&d.ID, &d.WebhookID, &d.Event, &d.Payload, &d.Status, &d.StatusCode,
			&d.ResponseBody, &d.RetryCount, &d.NextRetryAt, &d.CreatedAt, &d.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, &d)
	}

	return deliveries, rows.Err()
}

// GetWebhook retrieves a webhook by ID
func (r *Repository) GetWebhook(ctx context.Context, id string) (*models.Webhook, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks WHERE id = $1`
	return scanWebhook(r.db.Pool.QueryRow(ctx, query, id))
}
