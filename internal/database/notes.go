package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gencapp/genc/pkg/models"
)

const noteColumns = `id, user_id, title, content, tags, starred, created_at, updated_at`

func scanNote(row pgx.Row) (*models.Note, error) {
	var n models.Note
	err := row.Scan(
		&n.ID, &n.UserID, &n.Title, &n.Content, &n.Tags,
		&n.Starred, &n.CreatedAt, &n.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan note: %w", err)
	}
	return &n, nil
}

// CreateNote creates a new note
func (r *Repository) CreateNote(ctx context.Context, n *models.Note) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	query := `
		INSERT INTO notes (id, user_id, title, content, tags, starred)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		n.ID, n.UserID, n.Title, n.Content, n.Tags, n.Starred,
	).Scan(&n.CreatedAt, &n.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// GetNote retrieves a note by ID
func (r *Repository) GetNote(ctx context.Context, id string) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`
	return scanNote(r.db.Pool.QueryRow(ctx, query, id))
}

// ListNotesForUser retrieves a user's notes, newest first
func (r *Repository) ListNotesForUser(ctx context.Context, uid string) ([]*models.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

// NoteUpdate holds the editable note fields; nil means unchanged
type NoteUpdate struct {
	Title   *string
	Content *string
	Tags    *models.Tags
	Starred *bool
}

// UpdateNote applies a partial update to a note
func (r *Repository) UpdateNote(ctx context.Context, id string, upd NoteUpdate) error {
	query := `
		UPDATE notes
		SET title = COALESCE($2, title),
		    content = COALESCE($3, content),
		    tags = COALESCE($4, tags),
		    starred = COALESCE($5, starred),
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, upd.Title, upd.Content, upd.Tags, upd.Starred)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteNote removes a note
func (r *Repository) DeleteNote(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
