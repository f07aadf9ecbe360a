package models

import (
	"time"
)

// CreditUsage is the per-user credit ledger row
type CreditUsage struct {
	UID          string    `json:"uid" db:"uid"`
	AccountLevel string    `json:"account_level" db:"account_level"`
	CreditsUsed  int       `json:"credits_used" db:"credits_used"`
	CreditsLimit int       `json:"credits_limit" db:"credits_limit"`
	PeriodType   string    `json:"period_type" db:"period_type"`
	PeriodStart  time.Time `json:"period_start" db:"period_start"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Period types for credit reset
const (
	PeriodDaily   = "daily"
	PeriodMonthly = "monthly"
)

// UsageStats is the shape returned by the usage stats endpoint
type UsageStats struct {
	CreditsUsed      int       `json:"credits_used"`
	CreditsLimit     int       `json:"credits_limit"`
	CreditsRemaining int       `json:"credits_remaining"`
	PercentageUsed   float64   `json:"percentage_used"`
	PeriodType       string    `json:"period_type"`
	PeriodStart      time.Time `json:"period_start"`
}

// ActionKind identifies a credit-consuming action
type ActionKind string

const (
	ActionScriptGeneration ActionKind = "script_generation"
	ActionScriptRefinement ActionKind = "script_refinement"
	ActionTranscription    ActionKind = "transcription"
	ActionVoiceTraining    ActionKind = "voice_training"
)
