package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gencapp/genc/pkg/models"
)

const creditColumns = `uid, account_level, credits_used, credits_limit, period_type, period_start, updated_at`

func scanCreditUsage(row pgx.Row) (*models.CreditUsage, error) {
	var u models.CreditUsage
	err := row.Scan(
		&u.UID, &u.AccountLevel, &u.CreditsUsed, &u.CreditsLimit,
		&u.PeriodType, &u.PeriodStart, &u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan credit usage: %w", err)
	}
	return &u, nil
}

// GetCreditUsage retrieves the ledger row for a user
func (r *Repository) GetCreditUsage(ctx context.Context, uid string) (*models.CreditUsage, error) {
	query := `SELECT ` + creditColumns + ` FROM credit_usage WHERE uid = $1`
	return scanCreditUsage(r.db.Pool.QueryRow(ctx, query, uid))
}

// EnsureCreditUsage creates the ledger row on first use and returns it
func (r *Repository) EnsureCreditUsage(ctx context.Context, u *models.CreditUsage) (*models.CreditUsage, error) {
	query := `
		INSERT INTO credit_usage (uid, account_level, credits_used, credits_limit, period_type, period_start)
		VALUES ($1, $2, 0, $3, $4, $5)
		ON CONFLICT (uid) DO NOTHING
	`

	_, err := r.db.Pool.Exec(ctx, query,
		u.UID, u.AccountLevel, u.CreditsLimit, u.PeriodType, u.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure credit usage: %w", err)
	}

	return r.GetCreditUsage(ctx, u.UID)
}

// DeductCredits atomically charges cost against the user's ledger.
// Returns false without error when the guard fails (insufficient credits).
func (r *Repository) DeductCredits(ctx context.Context, uid string, cost int) (bool, error) {
	query := `
		UPDATE credit_usage
		SET credits_used = credits_used + $2, updated_at = NOW()
		WHERE uid = $1 AND credits_used + $2 <= credits_limit
	`

	tag, err := r.db.Pool.Exec(ctx, query, uid, cost)
	if err != nil {
		return false, fmt.Errorf("failed to deduct credits: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// RefundCredits returns cost to the ledger, never going below zero
func (r *Repository) RefundCredits(ctx context.Context, uid string, cost int) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE credit_usage
		SET credits_used = GREATEST(credits_used - $2, 0), updated_at = NOW()
		WHERE uid = $1
	`, uid, cost)
	if err != nil {
		return fmt.Errorf("failed to refund credits: %w", err)
	}
	return nil
}

// ResetCreditPeriod zeroes usage and starts a new period for one user
func (r *Repository) ResetCreditPeriod(ctx context.Context, uid string, periodStart time.Time) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE credit_usage
		SET credits_used = 0, period_start = $2, updated_at = NOW()
		WHERE uid = $1
	`, uid, periodStart)
	if err != nil {
		return fmt.Errorf("failed to reset credit period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetExpiredPeriods rolls over every ledger whose period has lapsed.
// Returns the number of ledgers reset.
func (r *Repository) ResetExpiredPeriods(ctx context.Context, now time.Time) (int, error) {
	query := `
		UPDATE credit_usage
		SET credits_used = 0,
		    period_start = CASE period_type
		        WHEN $2 THEN date_trunc('day', $1::timestamptz)
		        ELSE date_trunc('month', $1::timestamptz)
		    END,
		    updated_at = NOW()
		WHERE (period_type = $2 AND period_start < date_trunc('day', $1::timestamptz))
		   OR (period_type = $3 AND period_start < date_trunc('month', $1::timestamptz))
	`

	tag, err := r.db.Pool.Exec(ctx, query, now, models.PeriodDaily, models.PeriodMonthly)
	if err != nil {
		return 0, fmt.Errorf("failed to reset expired periods: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// UpdateCreditPlan switches a ledger to a new account level
func (r *Repository) UpdateCreditPlan(ctx context.Context, uid, accountLevel string, creditsLimit int, periodType string, periodStart time.Time) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE credit_usage
		SET account_level = $2, credits_limit = $3, period_type = $4,
		    period_start = $5, credits_used = 0, updated_at = NOW()
		WHERE uid = $1
	`, uid, accountLevel, creditsLimit, periodType, periodStart)
	if err != nil {
		return fmt.Errorf("failed to update credit plan: %w", err)
	}
	return nil
}
