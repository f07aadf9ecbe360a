package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gencapp/genc/pkg/models"
)

const videoColumns = `id, url, platform, thumbnail_url, title, author, collection_id, user_id,
	favorite, transcript, components, content_metadata, insights, visual_context,
	transcription_status, created_at, updated_at`

func scanVideo(row pgx.Row) (*models.Video, error) {
	var v models.Video
	err := row.Scan(
		&v.ID, &v.URL, &v.Platform, &v.ThumbnailURL, &v.Title, &v.Author,
		&v.CollectionID, &v.UserID, &v.Favorite, &v.Transcript, &v.Components,
		&v.ContentMetadata, &v.Insights, &v.VisualContext, &v.TranscriptionStatus,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}
	return &v, nil
}

// CreateVideo inserts a video and bumps the owning collection's counter
// in one transaction
func (r *Repository) CreateVideo(ctx context.Context, v *models.Video) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.TranscriptionStatus == "" {
		v.TranscriptionStatus = models.TranscriptionStatusPending
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO videos (id, url, platform, thumbnail_url, title, author, collection_id,
			user_id, favorite, transcript, components, content_metadata, insights,
			visual_context, transcription_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		v.ID, v.URL, v.Platform, v.ThumbnailURL, v.Title, v.Author, v.CollectionID,
		v.UserID, v.Favorite, v.Transcript, v.Components, v.ContentMetadata,
		v.Insights, v.VisualContext, v.TranscriptionStatus,
	).Scan(&v.CreatedAt, &v.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE collections
		SET video_count = video_count + 1, updated_at = NOW()
		WHERE id = $1
	`, v.CollectionID)
	if err != nil {
		return fmt.Errorf("failed to bump video count: %w", err)
	}

	return tx.Commit(ctx)
}

// GetVideo retrieves a video by ID
func (r *Repository) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	return scanVideo(r.db.Pool.QueryRow(ctx, query, id))
}

// VideoPage describes a keyset pagination request over (updated_at, id)
type VideoPage struct {
	Limit        int
	CursorTime   *time.Time
	CursorID     string
	CollectionID string
}

// ListVideosForUsers retrieves videos owned by any of the given users,
// optionally scoped to one collection, newest first with keyset pagination
func (r *Repository) ListVideosForUsers(ctx context.Context, userIDs []string, page VideoPage) ([]*models.Video, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	if page.Limit <= 0 {
		page.Limit = 24
	}

	query := `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE user_id = ANY($1)
		  AND ($2 = '' OR collection_id = $2)
		  AND ($3::timestamptz IS NULL OR (updated_at, id) < ($3, $4))
		ORDER BY updated_at DESC, id DESC
		LIMIT $5
	`

	rows, err := r.db.Pool.Query(ctx, query,
		userIDs, page.CollectionID, page.CursorTime, page.CursorID, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}

	return videos, rows.Err()
}

// CountVideosForUsers returns the total number of matching videos
func (r *Repository) CountVideosForUsers(ctx context.Context, userIDs []string, collectionID string) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	var count int
	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM videos
		WHERE user_id = ANY($1) AND ($2 = '' OR collection_id = $2)
	`, userIDs, collectionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}

	return count, nil
}

// VideoUpdate holds the editable video fields; nil means unchanged
type VideoUpdate struct {
	Title    *string
	Favorite *bool
}

// UpdateVideo applies a partial update to a video
func (r *Repository) UpdateVideo(ctx context.Context, id string, upd VideoUpdate) error {
	query := `
		UPDATE videos
		SET title = COALESCE($2, title),
		    favorite = COALESCE($3, favorite),
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, upd.Title, upd.Favorite)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteVideo removes a video and decrements the collection counter
func (r *Repository) DeleteVideo(ctx context.Context, id string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var collectionID string
	err = tx.QueryRow(ctx, `DELETE FROM videos WHERE id = $1 RETURNING collection_id`, id).
		Scan(&collectionID)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE collections
		SET video_count = GREATEST(video_count - 1, 0), updated_at = NOW()
		WHERE id = $1
	`, collectionID)
	if err != nil {
		return fmt.Errorf("failed to drop video count: %w", err)
	}

	return tx.Commit(ctx)
}

// MoveVideo reassigns a video to another collection, keeping both
// counters consistent in one transaction
func (r *Repository) MoveVideo(ctx context.Context, id, targetCollectionID string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var sourceCollectionID string
	err = tx.QueryRow(ctx, `SELECT collection_id FROM videos WHERE id = $1 FOR UPDATE`, id).
		Scan(&sourceCollectionID)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up video: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE videos SET collection_id = $2, updated_at = NOW() WHERE id = $1
	`, id, targetCollectionID)
	if err != nil {
		return fmt.Errorf("failed to move video: %w", err)
	}

	if sourceCollectionID == targetCollectionID {
		return tx.Commit(ctx)
	}

	_, err = tx.Exec(ctx, `
		UPDATE collections
		SET video_count = GREATEST(video_count - 1, 0), updated_at = NOW()
		WHERE id = $1
	`, sourceCollectionID)
	if err != nil {
		return fmt.Errorf("failed to drop source video count: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE collections
		SET video_count = video_count + 1, updated_at = NOW()
		WHERE id = $1
	`, targetCollectionID)
	if err != nil {
		return fmt.Errorf("failed to bump target video count: %w", err)
	}

	return tx.Commit(ctx)
}

// CopyVideo duplicates a video into another collection and returns the copy
func (r *Repository) CopyVideo(ctx context.Context, id, targetCollectionID string) (*models.Video, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	newID := uuid.New().String()
	query := `
		INSERT INTO videos (id, url, platform, thumbnail_url, title, author, collection_id,
			user_id, favorite, transcript, components, content_metadata, insights,
			visual_context, transcription_status)
		SELECT $2, url, platform, thumbnail_url, title, author, $3,
			user_id, false, transcript, components, content_metadata, insights,
			visual_context, transcription_status
		FROM videos WHERE id = $1
		RETURNING ` + videoColumns + `
	`

	copied, err := scanVideo(tx.QueryRow(ctx, query, id, newID, targetCollectionID))
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE collections
		SET video_count = video_count + 1, updated_at = NOW()
		WHERE id = $1
	`, targetCollectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to bump target video count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return copied, nil
}

// UpdateTranscriptionStatus sets only the transcription status
func (r *Repository) UpdateTranscriptionStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE videos SET transcription_status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update transcription status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TranscriptionResult carries everything the worker writes back after
// a successful transcription
type TranscriptionResult struct {
	Transcript    string
	Components    *models.ScriptComponents
	Insights      models.Metadata
	Metadata      models.Metadata
	VisualContext string
}

// SaveTranscription stores a completed transcription result
func (r *Repository) SaveTranscription(ctx context.Context, id string, res TranscriptionResult) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE videos
		SET transcript = $2,
		    components = $3,
		    insights = $4,
		    content_metadata = $5,
		    visual_context = $6,
		    transcription_status = $7,
		    updated_at = NOW()
		WHERE id = $1
	`, id, res.Transcript, res.Components, res.Insights, res.Metadata,
		res.VisualContext, models.TranscriptionStatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to save transcription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPendingTranscriptions returns videos stuck in pending state,
// oldest first, for the backfill loop
func (r *Repository) ListPendingTranscriptions(ctx context.Context, olderThan time.Time, limit int) ([]*models.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE transcription_status = $1 AND created_at < $2
		ORDER BY created_at
		LIMIT $3
	`

	rows, err := r.db.Pool.Query(ctx, query, models.TranscriptionStatusPending, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transcriptions: %w", err)
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}

	return videos, rows.Err()
}
