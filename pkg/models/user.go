package models

import (
	"time"
)

// UserProfile represents an account in the coach/creator hierarchy
type UserProfile struct {
	UID          string     `json:"uid" db:"uid"`
	Email        string     `json:"email" db:"email"`
	DisplayName  string     `json:"display_name" db:"display_name"`
	PasswordHash string     `json:"-" db:"password_hash"`
	APIKey       string     `json:"api_key,omitempty" db:"api_key"`
	Role         Role       `json:"role" db:"role"`
	CoachID      string     `json:"coach_id,omitempty" db:"coach_id"`
	AccountLevel string     `json:"account_level" db:"account_level"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
}

// Role represents the access tier of a profile
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleCoach      Role = "coach"
	RoleCreator    Role = "creator"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleCoach, RoleCreator:
		return true
	}
	return false
}

// Account levels determine the credit limit and reset period
const (
	AccountLevelFree = "free"
	AccountLevelPro  = "pro"
)

// JWTClaims represents JWT token claims
type JWTClaims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
