package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gencapp/genc/pkg/models"
)

const collectionColumns = `id, title, description, user_id, video_count, favorite, created_at, updated_at`

func scanCollection(row pgx.Row) (*models.Collection, error) {
	var c models.Collection
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.UserID, &c.VideoCount,
		&c.Favorite, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan collection: %w", err)
	}
	return &c, nil
}

// CreateCollection creates a new collection record
func (r *Repository) CreateCollection(ctx context.Context, c *models.Collection) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	query := `
		INSERT INTO collections (id, title, description, user_id, video_count, favorite)
		VALUES ($1, $2, $3, $4, 0, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		c.ID, c.Title, c.Description, c.UserID, c.Favorite,
	).Scan(&c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// GetCollection retrieves a collection by ID
func (r *Repository) GetCollection(ctx context.Context, id string) (*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = $1`
	return scanCollection(r.db.Pool.QueryRow(ctx, query, id))
}

// ListCollectionsForUsers retrieves all collections owned by any of the given users
func (r *Repository) ListCollectionsForUsers(ctx context.Context, userIDs []string) ([]*models.Collection, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + collectionColumns + `
		FROM collections
		WHERE user_id = ANY($1)
		ORDER BY updated_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var collections []*models.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}

	return collections, rows.Err()
}

// CollectionUpdate holds the editable collection fields; nil means unchanged
type CollectionUpdate struct {
	Title       *string
	Description *string
	Favorite    *bool
}

// UpdateCollection applies a partial update to a collection
func (r *Repository) UpdateCollection(ctx context.Context, id string, upd CollectionUpdate) error {
	query := `
		UPDATE collections
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    favorite = COALESCE($4, favorite),
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, upd.Title, upd.Description, upd.Favorite)
	if err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteCollection removes a collection and its videos in one transaction
func (r *Repository) DeleteCollection(ctx context.Context, id string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM videos WHERE collection_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete collection videos: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}
