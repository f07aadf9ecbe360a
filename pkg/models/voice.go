package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// AIVoice represents a trained writing voice derived from a collection
type AIVoice struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	Badges         Badges    `json:"badges" db:"badges"`
	Description    string    `json:"description" db:"description"`
	CreationStatus string    `json:"creation_status" db:"creation_status"`
	IsShared       bool      `json:"is_shared" db:"is_shared"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Badges is the list of short labels shown on a voice card
type Badges []string

// Value implements driver.Valuer for database storage
func (b Badges) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements sql.Scanner for database retrieval
func (b *Badges) Scan(value interface{}) error {
	if value == nil {
		*b = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, b)
}

// Voice creation status constants
const (
	VoiceStatusPending = "pending"
	VoiceStatusReady   = "ready"
	VoiceStatusFailed  = "failed"
)
