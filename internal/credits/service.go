package credits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gencapp/genc/internal/logging"
	"github.com/gencapp/genc/pkg/models"
)

// ErrInsufficientCredits is returned when a charge would exceed the
// user's period limit.
var ErrInsufficientCredits = errors.New("insufficient credits")

// ErrUnknownAction is returned for actions with no configured cost.
var ErrUnknownAction = errors.New("unknown credit action")

// Plan describes the credit allowance of an account level.
type Plan struct {
	CreditsLimit int
	PeriodType   string
}

var plans = map[string]Plan{
	models.AccountLevelFree: {CreditsLimit: 3, PeriodType: models.PeriodDaily},
	models.AccountLevelPro:  {CreditsLimit: 5000, PeriodType: models.PeriodMonthly},
}

var costs = map[models.ActionKind]int{
	models.ActionScriptGeneration: 1,
	models.ActionScriptRefinement: 1,
	models.ActionTranscription:    1,
	models.ActionVoiceTraining:    80,
}

// Ledger is the persistence surface the service needs.
type Ledger interface {
	GetCreditUsage(ctx context.Context, uid string) (*models.CreditUsage, error)
	EnsureCreditUsage(ctx context.Context, u *models.CreditUsage) (*models.CreditUsage, error)
	DeductCredits(ctx context.Context, uid string, cost int) (bool, error)
	RefundCredits(ctx context.Context, uid string, cost int) error
	ResetCreditPeriod(ctx context.Context, uid string, periodStart time.Time) error
	UpdateCreditPlan(ctx context.Context, uid, accountLevel string, creditsLimit int, periodType string, periodStart time.Time) error
}

// Service enforces per-period credit limits.
type Service struct {
	ledger Ledger
	log    *logging.Logger
	now    func() time.Time
}

// NewService creates a credit Service.
func NewService(ledger Ledger, log *logging.Logger) *Service {
	return &Service{
		ledger: ledger,
		log:    log,
		now:    time.Now,
	}
}

// Cost returns the credit cost of an action.
func Cost(action models.ActionKind) (int, error) {
	cost, ok := costs[action]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	return cost, nil
}

// PlanFor returns the plan for an account level, defaulting to free.
func PlanFor(accountLevel string) Plan {
	if plan, ok := plans[accountLevel]; ok {
		return plan
	}
	return plans[models.AccountLevelFree]
}

// PeriodStart returns the start of the current period for a period type.
func PeriodStart(periodType string, now time.Time) time.Time {
	now = now.UTC()
	switch periodType {
	case models.PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// Charge deducts the cost of an action from the user's ledger. The guard
// runs inside a single UPDATE so concurrent charges can never overspend.
// Returns the cost charged, or ErrInsufficientCredits.
func (s *Service) Charge(ctx context.Context, uid, accountLevel string, action models.ActionKind) (int, error) {
	cost, err := Cost(action)
	if err != nil {
		return 0, err
	}

	if _, err := s.ensureCurrent(ctx, uid, accountLevel); err != nil {
		return 0, err
	}

	ok, err := s.ledger.DeductCredits(ctx, uid, cost)
	if err != nil {
		return 0, fmt.Errorf("failed to deduct credits: %w", err)
	}
	if !ok {
		return 0, ErrInsufficientCredits
	}

	s.log.WithUID(uid).WithField("action", string(action)).WithField("cost", cost).Debug("Credits charged")
	return cost, nil
}

// Refund returns the cost of a failed action to the user's ledger.
func (s *Service) Refund(ctx context.Context, uid string, action models.ActionKind) error {
	cost, err := Cost(action)
	if err != nil {
		return err
	}
	if err := s.ledger.RefundCredits(ctx, uid, cost); err != nil {
		return fmt.Errorf("failed to refund credits: %w", err)
	}
	return nil
}

// Stats reports the user's usage for the current period.
func (s *Service) Stats(ctx context.Context, uid, accountLevel string) (*models.UsageStats, error) {
	usage, err := s.ensureCurrent(ctx, uid, accountLevel)
	if err != nil {
		return nil, err
	}

	remaining := usage.CreditsLimit - usage.CreditsUsed
	if remaining < 0 {
		remaining = 0
	}

	var pct float64
	if usage.CreditsLimit > 0 {
		pct = float64(usage.CreditsUsed) / float64(usage.CreditsLimit) * 100
	}

	return &models.UsageStats{
		CreditsUsed:      usage.CreditsUsed,
		CreditsLimit:     usage.CreditsLimit,
		CreditsRemaining: remaining,
		PercentageUsed:   pct,
		PeriodType:       usage.PeriodType,
		PeriodStart:      usage.PeriodStart,
	}, nil
}

// ChangePlan moves a user to a new account level and starts a fresh period.
func (s *Service) ChangePlan(ctx context.Context, uid, accountLevel string) error {
	plan := PlanFor(accountLevel)
	start := PeriodStart(plan.PeriodType, s.now())
	if err := s.ledger.UpdateCreditPlan(ctx, uid, accountLevel, plan.CreditsLimit, plan.PeriodType, start); err != nil {
		return fmt.Errorf("failed to change plan: %w", err)
	}
	return nil
}

// ensureCurrent makes sure the ledger row exists and its period is the
// current one, rolling it over lazily when it has expired.
func (s *Service) ensureCurrent(ctx context.Context, uid, accountLevel string) (*models.CreditUsage, error) {
	plan := PlanFor(accountLevel)
	start := PeriodStart(plan.PeriodType, s.now())

	usage, err := s.ledger.EnsureCreditUsage(ctx, &models.CreditUsage{
		UID:          uid,
		AccountLevel: accountLevel,
		CreditsLimit: plan.CreditsLimit,
		PeriodType:   plan.PeriodType,
		PeriodStart:  start,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load credit usage: %w", err)
	}

	if usage.PeriodStart.Before(start) {
		if err := s.ledger.ResetCreditPeriod(ctx, uid, start); err != nil {
			return nil, fmt.Errorf("failed to reset credit period: %w", err)
		}
		usage, err = s.ledger.GetCreditUsage(ctx, uid)
		if err != nil {
			return nil, fmt.Errorf("failed to reload credit usage: %w", err)
		}
	}

	return usage, nil
}
