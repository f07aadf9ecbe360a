package models

import (
	"time"
)

// Collection represents a user-defined folder grouping saved videos
type Collection struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	UserID      string    `json:"user_id" db:"user_id"`
	VideoCount  int       `json:"video_count" db:"video_count"`
	Favorite    bool      `json:"favorite" db:"favorite"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
