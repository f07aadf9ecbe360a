package bunny

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gencapp/genc/internal/config"
)

const streamBaseURL = "https://video.bunnycdn.com/library"

// StreamClient talks to the Bunny Stream management API.
type StreamClient struct {
	client    *http.Client
	apiKey    string
	libraryID string
}

// NewStreamClient creates a Stream API client from configuration.
func NewStreamClient(cfg config.BunnyConfig) *StreamClient {
	return &StreamClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:    cfg.StreamAPIKey,
		libraryID: cfg.LibraryID,
	}
}

// LibraryID returns the configured library ID.
func (s *StreamClient) LibraryID() string {
	return s.libraryID
}

// FetchVideo asks Bunny to ingest a video from a remote URL.
func (s *StreamClient) FetchVideo(ctx context.Context, remoteURL, title string) error {
	body := map[string]string{"url": remoteURL, "title": title}
	return s.do(ctx, http.MethodPost, fmt.Sprintf("%s/%s/videos/fetch", streamBaseURL, s.libraryID), body)
}

// DeleteVideo removes a video from the library.
func (s *StreamClient) DeleteVideo(ctx context.Context, videoID string) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%s/videos/%s", streamBaseURL, s.libraryID, videoID), nil)
}

func (s *StreamClient) do(ctx context.Context, method, url string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("AccessKey", s.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("stream API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("stream API returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
