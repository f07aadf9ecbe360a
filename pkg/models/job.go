package models

import (
	"time"
)

// TranscriptionJob is the queue payload for background transcription
type TranscriptionJob struct {
	ID         string    `json:"id"`
	VideoID    string    `json:"video_id"`
	UserID     string    `json:"user_id"`
	VideoURL   string    `json:"video_url"`
	Platform   string    `json:"platform"`
	RetryCount int       `json:"retry_count"`
	CreatedAt  time.Time `json:"created_at"`
}
