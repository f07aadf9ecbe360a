package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/gencapp/genc/internal/config"
	"github.com/gencapp/genc/internal/logging"
)

// Client wraps the Gemini API for script generation and transcription.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     *logging.Logger
}

// New creates a Gemini client from configuration.
func New(ctx context.Context, cfg config.GeminiConfig, log *logging.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.RequestTimeout,
		log:     log,
	}, nil
}

// generate issues a single text-only completion.
func (c *Client) generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	return c.generateParts(ctx, []*genai.Part{genai.NewPartFromText(prompt)}, temperature)
}

// generateParts issues a completion over mixed content parts (text, audio).
func (c *Client) generateParts(ctx context.Context, parts []*genai.Part, temperature float32) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	c.log.WithField("model", c.model).
		WithField("duration", time.Since(start).String()).
		Debug("Gemini call completed")

	return text, nil
}
