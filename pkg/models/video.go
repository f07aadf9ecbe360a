package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Video represents a saved social video inside a collection
type Video struct {
	ID                  string            `json:"id" db:"id"`
	URL                 string            `json:"url" db:"url"`
	Platform            string            `json:"platform" db:"platform"`
	ThumbnailURL        string            `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Title               string            `json:"title" db:"title"`
	Author              string            `json:"author" db:"author"`
	CollectionID        string            `json:"collection_id" db:"collection_id"`
	UserID              string            `json:"user_id" db:"user_id"`
	Favorite            bool              `json:"favorite" db:"favorite"`
	Transcript          string            `json:"transcript,omitempty" db:"transcript"`
	Components          *ScriptComponents `json:"components,omitempty" db:"components"`
	ContentMetadata     Metadata          `json:"content_metadata,omitempty" db:"content_metadata"`
	Insights            Metadata          `json:"insights,omitempty" db:"insights"`
	VisualContext       string            `json:"visual_context,omitempty" db:"visual_context"`
	TranscriptionStatus string            `json:"transcription_status" db:"transcription_status"`
	CreatedAt           time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at" db:"updated_at"`
}

// ScriptComponents is the Hook/Bridge/Golden Nugget/WTA breakdown of a script
type ScriptComponents struct {
	Hook         string `json:"hook"`
	Bridge       string `json:"bridge"`
	GoldenNugget string `json:"golden_nugget"`
	WTA          string `json:"wta"`
}

// Value implements driver.Valuer for database storage
func (sc ScriptComponents) Value() (driver.Value, error) {
	return json.Marshal(sc)
}

// Scan implements sql.Scanner for database retrieval
func (sc *ScriptComponents) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, sc)
}

// Metadata holds loosely-structured video metadata and insights
type Metadata map[string]interface{}

// Value implements driver.Valuer for database storage
func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for database retrieval
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = make(Metadata)
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// TranscriptionStatus constants
const (
	TranscriptionStatusPending    = "pending"
	TranscriptionStatusProcessing = "processing"
	TranscriptionStatusCompleted  = "completed"
	TranscriptionStatusFailed     = "failed"
)

// Platform constants for saved videos
const (
	PlatformTikTok    = "tiktok"
	PlatformInstagram = "instagram"
	PlatformYouTube   = "youtube"
	PlatformBunny     = "bunny"
	PlatformOther     = "other"
)
