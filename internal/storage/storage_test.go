package storage

import (
	"testing"
)

func TestAudioContentType(t *testing.T) {
	tests := []struct {
		filename string
		wantType string
	}{
		{"recording.mp3", "audio/mpeg"},
		{"recording.wav", "audio/wav"},
		{"recording.m4a", "audio/mp4"},
		{"recording.ogg", "audio/ogg"},
		{"recording.webm", "audio/webm"},
		{"recording.aac", "audio/aac"},
		{"unknown.xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			contentType := AudioContentType(tt.filename)
			if contentType != tt.wantType {
				t.Errorf("AudioContentType(%q) = %q, want %q", tt.filename, contentType, tt.wantType)
			}
		})
	}
}
