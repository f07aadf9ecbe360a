package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// TranscribeAudio transcribes raw audio bytes (voice notes).
func (c *Client) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("empty audio payload")
	}

	parts := []*genai.Part{
		genai.NewPartFromText(audioTranscribePrompt),
		genai.NewPartFromBytes(audio, mimeType),
	}

	text, err := c.generateParts(ctx, parts, 0.1)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// TranscribeVideoURL transcribes a social video by its public URL.
func (c *Client) TranscribeVideoURL(ctx context.Context, videoURL string) (string, error) {
	if videoURL == "" {
		return "", fmt.Errorf("empty video URL")
	}

	text, err := c.generate(ctx, fmt.Sprintf(videoTranscribePrompt, videoURL), 0.1)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}
