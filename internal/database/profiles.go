package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gencapp/genc/pkg/models"
)

const profileColumns = `uid, email, display_name, password_hash, api_key, role, coach_id,
	account_level, is_active, created_at, updated_at, last_login_at`

func scanProfile(row pgx.Row) (*models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(
		&p.UID, &p.Email, &p.DisplayName, &p.PasswordHash, &p.APIKey, &p.Role,
		&p.CoachID, &p.AccountLevel, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&p.LastLoginAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &p, nil
}

// CreateProfile creates a new user profile with a hashed password and a fresh API key
func (r *Repository) CreateProfile(ctx context.Context, p *models.UserProfile, password string) error {
	if p.UID == "" {
		p.UID = uuid.New().String()
	}
	if p.APIKey == "" {
		p.APIKey = uuid.New().String()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	p.PasswordHash = string(hash)

	query := `
		INSERT INTO user_profiles (uid, email, display_name, password_hash, api_key,
			role, coach_id, account_level, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err = r.db.Pool.QueryRow(ctx, query,
		p.UID, p.Email, p.DisplayName, p.PasswordHash, p.APIKey,
		p.Role, p.CoachID, p.AccountLevel, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetProfile retrieves a profile by UID
func (r *Repository) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE uid = $1`
	return scanProfile(r.db.Pool.QueryRow(ctx, query, uid))
}

// GetProfileByEmail retrieves a profile by email
func (r *Repository) GetProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE email = $1`
	return scanProfile(r.db.Pool.QueryRow(ctx, query, email))
}

// GetProfileByAPIKey retrieves a profile by its API key
func (r *Repository) GetProfileByAPIKey(ctx context.Context, apiKey string) (*models.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE api_key = $1`
	return scanProfile(r.db.Pool.QueryRow(ctx, query, apiKey))
}

// ListProfiles retrieves profiles with pagination, newest first
func (r *Repository) ListProfiles(ctx context.Context, limit, offset int) ([]*models.UserProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM user_profiles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// CountProfiles returns the total number of profiles
func (r *Repository) CountProfiles(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_profiles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

// ListActiveCoachUIDs returns the UIDs of all active coaches
func (r *Repository) ListActiveCoachUIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT uid FROM user_profiles
		WHERE role = $1 AND is_active = true
		ORDER BY created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, models.RoleCoach)
	if err != nil {
		return nil, fmt.Errorf("failed to list coaches: %w", err)
	}
	defer rows.Close()

	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("failed to scan coach uid: %w", err)
		}
		uids = append(uids, uid)
	}

	return uids, rows.Err()
}

// ProfileUpdate holds the admin-editable profile fields; nil means unchanged
type ProfileUpdate struct {
	DisplayName  *string
	Role         *models.Role
	CoachID      *string
	AccountLevel *string
	IsActive     *bool
}

// UpdateProfile applies a partial update to a profile
func (r *Repository) UpdateProfile(ctx context.Context, uid string, upd ProfileUpdate) error {
	query := `
		UPDATE user_profiles
		SET display_name = COALESCE($2, display_name),
		    role = COALESCE($3, role),
		    coach_id = COALESCE($4, coach_id),
		    account_level = COALESCE($5, account_level),
		    is_active = COALESCE($6, is_active),
		    updated_at = NOW()
		WHERE uid = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		uid, upd.DisplayName, upd.Role, upd.CoachID, upd.AccountLevel, upd.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateLastLogin records a successful login
func (r *Repository) UpdateLastLogin(ctx context.Context, uid string, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE user_profiles SET last_login_at = $2 WHERE uid = $1`, uid, at)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// DeleteProfile removes a profile and its owned data
func (r *Repository) DeleteProfile(ctx context.Context, uid string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, q := range []string{
		`DELETE FROM videos WHERE user_id = $1`,
		`DELETE FROM collections WHERE user_id = $1`,
		`DELETE FROM notes WHERE user_id = $1`,
		`DELETE FROM ai_voices WHERE user_id = $1`,
		`DELETE FROM credit_usage WHERE uid = $1`,
	} {
		if _, err := tx.Exec(ctx, q, uid); err != nil {
			return fmt.Errorf("failed to delete user data: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM user_profiles WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// ActivateBrandProfile activates the target profile and deactivates its
// siblings (profiles assigned to the same coach) in one transaction
func (r *Repository) ActivateBrandProfile(ctx context.Context, uid string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var coachID string
	err = tx.QueryRow(ctx, `SELECT coach_id FROM user_profiles WHERE uid = $1`, uid).Scan(&coachID)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up profile: %w", err)
	}

	if coachID != "" {
		_, err = tx.Exec(ctx, `
			UPDATE user_profiles
			SET is_active = false, updated_at = NOW()
			WHERE coach_id = $1 AND uid <> $2
		`, coachID, uid)
		if err != nil {
			return fmt.Errorf("failed to deactivate sibling profiles: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE user_profiles
		SET is_active = true, updated_at = NOW()
		WHERE uid = $1
	`, uid)
	if err != nil {
		return fmt.Errorf("failed to activate profile: %w", err)
	}

	return tx.Commit(ctx)
}
