package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gencapp/genc/pkg/models"
)

const voiceColumns = `id, user_id, name, badges, description, creation_status, is_shared, created_at`

func scanVoice(row pgx.Row) (*models.AIVoice, error) {
	var v models.AIVoice
	err := row.Scan(
		&v.ID, &v.UserID, &v.Name, &v.Badges, &v.Description,
		&v.CreationStatus, &v.IsShared, &v.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan voice: %w", err)
	}
	return &v, nil
}

// CreateVoice creates a new AI voice record
func (r *Repository) CreateVoice(ctx context.Context, v *models.AIVoice) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreationStatus == "" {
		v.CreationStatus = models.VoiceStatusPending
	}

	query := `
		INSERT INTO ai_voices (id, user_id, name, badges, description, creation_status, is_shared)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		v.ID, v.UserID, v.Name, v.Badges, v.Description, v.CreationStatus, v.IsShared,
	).Scan(&v.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create voice: %w", err)
	}

	return nil
}

// GetVoice retrieves a voice by ID
func (r *Repository) GetVoice(ctx context.Context, id string) (*models.AIVoice, error) {
	query := `SELECT ` + voiceColumns + ` FROM ai_voices WHERE id = $1`
	return scanVoice(r.db.Pool.QueryRow(ctx, query, id))
}

// ListVoicesForUser retrieves the user's own voices plus shared ones
func (r *Repository) ListVoicesForUser(ctx context.Context, uid string) ([]*models.AIVoice, error) {
	query := `
		SELECT ` + voiceColumns + `
		FROM ai_voices
		WHERE user_id = $1 OR is_shared = true
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}
	defer rows.Close()

	var voices []*models.AIVoice
	for rows.Next() {
		v, err := scanVoice(rows)
		if err != nil {
			return nil, err
		}
		voices = append(voices, v)
	}

	return voices, rows.Err()
}

// UpdateVoiceStatus sets the creation status and description of a voice
func (r *Repository) UpdateVoiceStatus(ctx context.Context, id, status, description string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE ai_voices SET creation_status = $2, description = $3 WHERE id = $1
	`, id, status, description)
	if err != nil {
		return fmt.Errorf("failed to update voice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
