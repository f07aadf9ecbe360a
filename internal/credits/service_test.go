package credits

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gencapp/genc/internal/logging"
	"github.com/gencapp/genc/pkg/models"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) GetCreditUsage(ctx context.Context, uid string) (*models.CreditUsage, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreditUsage), args.Error(1)
}

func (m *mockLedger) EnsureCreditUsage(ctx context.Context, u *models.CreditUsage) (*models.CreditUsage, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreditUsage), args.Error(1)
}

func (m *mockLedger) DeductCredits(ctx context.Context, uid string, cost int) (bool, error) {
	args := m.Called(ctx, uid, cost)
	return args.Bool(0), args.Error(1)
}

func (m *mockLedger) RefundCredits(ctx context.Context, uid string, cost int) error {
	args := m.Called(ctx, uid, cost)
	return args.Error(0)
}

func (m *mockLedger) ResetCreditPeriod(ctx context.Context, uid string, periodStart time.Time) error {
	args := m.Called(ctx, uid, periodStart)
	return args.Error(0)
}

func (m *mockLedger) UpdateCreditPlan(ctx context.Context, uid, accountLevel string, creditsLimit int, periodType string, periodStart time.Time) error {
	args := m.Called(ctx, uid, accountLevel, creditsLimit, periodType, periodStart)
	return args.Error(0)
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(logging.Config{Level: "error", Format: "console", Output: "stderr"})
	assert.NoError(t, err)
	return log
}

func newTestService(t *testing.T, ledger Ledger, now time.Time) *Service {
	s := NewService(ledger, testLogger(t))
	s.now = func() time.Time { return now }
	return s
}

func TestCost(t *testing.T) {
	cost, err := Cost(models.ActionScriptGeneration)
	assert.NoError(t, err)
	assert.Equal(t, 1, cost)

	cost, err = Cost(models.ActionVoiceTraining)
	assert.NoError(t, err)
	assert.Equal(t, 80, cost)

	_, err = Cost(models.ActionKind("mining"))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, 6, 17, 15, 4, 5, 0, time.UTC)

	assert.Equal(t,
		time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC),
		PeriodStart(models.PeriodDaily, now))
	assert.Equal(t,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodStart(models.PeriodMonthly, now))
}

func TestChargeSuccess(t *testing.T) {
	now := time.Date(2025, 6, 17, 12, 0, 0, 0, time.UTC)
	start := PeriodStart(models.PeriodDaily, now)

	ledger := new(mockLedger)
	ledger.On("EnsureCreditUsage", mock.Anything, mock.Anything).Return(&models.CreditUsage{
		UID:          "user-1",
		AccountLevel: models.AccountLevelFree,
		CreditsUsed:  1,
		CreditsLimit: 3,
		PeriodType:   models.PeriodDaily,
		PeriodStart:  start,
	}, nil)
	ledger.On("DeductCredits", mock.Anything, "user-1", 1).Return(true, nil)

	s := newTestService(t, ledger, now)

	cost, err := s.Charge(context.Background(), "user-1", models.AccountLevelFree, models.ActionScriptGeneration)
	assert.NoError(t, err)
	assert.Equal(t, 1, cost)
	ledger.AssertExpectations(t)
}

func TestChargeInsufficient(t *testing.T) {
	now := time.Date(2025, 6, 17, 12, 0, 0, 0, time.UTC)
	start := PeriodStart(models.PeriodDaily, now)

	ledger := new(mockLedger)
	ledger.On("EnsureCreditUsage", mock.Anything, mock.Anything).Return(&models.CreditUsage{
		UID:          "user-1",
		CreditsUsed:  3,
		CreditsLimit: 3,
		PeriodType:   models.PeriodDaily,
		PeriodStart:  start,
	}, nil)
	ledger.On("DeductCredits", mock.Anything, "user-1", 1).Return(false, nil)

	s := newTestService(t, ledger, now)

	_, err := s.Charge(context.Background(), "user-1", models.AccountLevelFree, models.ActionTranscription)
	assert.ErrorIs(t, err, ErrInsufficientCredits)
}

func TestChargeRollsOverExpiredPeriod(t *testing.T) {
	now := time.Date(2025, 6, 17, 12, 0, 0, 0, time.UTC)
	today := PeriodStart(models.PeriodDaily, now)
	yesterday := today.AddDate(0, 0, -1)

	ledger := new(mockLedger)
	ledger.On("EnsureCreditUsage", mock.Anything, mock.Anything).Return(&models.CreditUsage{
		UID:          "user-1",
		CreditsUsed:  3,
		CreditsLimit: 3,
		PeriodType:   models.PeriodDaily,
		PeriodStart:  yesterday,
	}, nil)
	ledger.On("ResetCreditPeriod", mock.Anything, "user-1", today).Return(nil)
	ledger.On("GetCreditUsage", mock.Anything, "user-1").Return(&models.CreditUsage{
		UID:          "user-1",
		CreditsUsed:  0,
		CreditsLimit: 3,
		PeriodType:   models.PeriodDaily,
		PeriodStart:  today,
	}, nil)
	ledger.On("DeductCredits", mock.Anything, "user-1", 1).Return(true, nil)

	s := newTestService(t, ledger, now)

	cost, err := s.Charge(context.Background(), "user-1", models.AccountLevelFree, models.ActionScriptGeneration)
	assert.NoError(t, err)
	assert.Equal(t, 1, cost)
	ledger.AssertExpectations(t)
}

func TestRefund(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("RefundCredits", mock.Anything, "user-1", 80).Return(nil)

	s := newTestService(t, ledger, time.Now())
	err := s.Refund(context.Background(), "user-1", models.ActionVoiceTraining)
	assert.NoError(t, err)
	ledger.AssertExpectations(t)
}

func TestStats(t *testing.T) {
	now := time.Date(2025, 6, 17, 12, 0, 0, 0, time.UTC)
	start := PeriodStart(models.PeriodMonthly, now)

	ledger := new(mockLedger)
	ledger.On("EnsureCreditUsage", mock.Anything, mock.Anything).Return(&models.CreditUsage{
		UID:          "user-1",
		AccountLevel: models.AccountLevelPro,
		CreditsUsed:  1250,
		CreditsLimit: 5000,
		PeriodType:   models.PeriodMonthly,
		PeriodStart:  start,
	}, nil)

	s := newTestService(t, ledger, now)
	stats, err := s.Stats(context.Background(), "user-1", models.AccountLevelPro)

	assert.NoError(t, err)
	assert.Equal(t, 1250, stats.CreditsUsed)
	assert.Equal(t, 3750, stats.CreditsRemaining)
	assert.InDelta(t, 25.0, stats.PercentageUsed, 0.001)
}

func TestChangePlan(t *testing.T) {
	now := time.Date(2025, 6, 17, 12, 0, 0, 0, time.UTC)
	start := PeriodStart(models.PeriodMonthly, now)

	ledger := new(mockLedger)
	ledger.On("UpdateCreditPlan", mock.Anything, "user-1", models.AccountLevelPro, 5000, models.PeriodMonthly, start).Return(nil)

	s := newTestService(t, ledger, now)
	err := s.ChangePlan(context.Background(), "user-1", models.AccountLevelPro)
	assert.NoError(t, err)
	ledger.AssertExpectations(t)
}
