package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gencapp/genc/pkg/models"
)

const hookCount = 10

// GenerateOptions produces two independent script variants for an idea.
// Both calls run concurrently; the pairing carries no ordering meaning.
func (c *Client) GenerateOptions(ctx context.Context, idea, length, voiceStyle string) (*models.ScriptOptions, error) {
	if length == "" {
		length = models.ScriptLength60
	}

	var style string
	if voiceStyle != "" {
		style = fmt.Sprintf(voiceStylePrompt, voiceStyle)
	}
	prompt := fmt.Sprintf(scriptPrompt, idea, length, style)

	var optionA, optionB *models.GeneratedScript
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		script, err := c.generateScript(gctx, prompt)
		if err != nil {
			return err
		}
		optionA = script
		return nil
	})
	g.Go(func() error {
		script, err := c.generateScript(gctx, prompt)
		if err != nil {
			return err
		}
		optionB = script
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.ScriptOptions{OptionA: optionA, OptionB: optionB}, nil
}

func (c *Client) generateScript(ctx context.Context, prompt string) (*models.GeneratedScript, error) {
	text, err := c.generate(ctx, prompt, 0.9)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(text)
	return &models.GeneratedScript{
		Content:   content,
		WordCount: countWords(content),
	}, nil
}

// Humanize rewrites a script to sound like natural speech.
func (c *Client) Humanize(ctx context.Context, script string) (*models.GeneratedScript, error) {
	return c.generateScript(ctx, fmt.Sprintf(humanizePrompt, script))
}

// Shorten condenses a script to roughly half its length.
func (c *Client) Shorten(ctx context.Context, script string) (*models.GeneratedScript, error) {
	return c.generateScript(ctx, fmt.Sprintf(shortenPrompt, script))
}

// GenerateHooks produces alternative opening hooks for an idea.
func (c *Client) GenerateHooks(ctx context.Context, idea string) ([]models.Hook, error) {
	text, err := c.generate(ctx, fmt.Sprintf(hooksPrompt, hookCount, idea), 1.0)
	if err != nil {
		return nil, err
	}

	var hooks []models.Hook
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &hooks); err != nil {
		return nil, fmt.Errorf("failed to parse hooks response: %w", err)
	}
	if len(hooks) == 0 {
		return nil, fmt.Errorf("no hooks in response")
	}

	return hooks, nil
}

// AnalyzeComponents breaks a transcript into script components.
func (c *Client) AnalyzeComponents(ctx context.Context, transcript string) (*models.ScriptComponents, error) {
	text, err := c.generate(ctx, fmt.Sprintf(analyzePrompt, transcript), 0.2)
	if err != nil {
		return nil, err
	}

	var components models.ScriptComponents
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &components); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	return &components, nil
}

// DescribeVoice derives an imitable style description from sample transcripts.
func (c *Client) DescribeVoice(ctx context.Context, transcripts []string) (string, error) {
	if len(transcripts) == 0 {
		return "", fmt.Errorf("no transcripts to describe")
	}

	text, err := c.generate(ctx, fmt.Sprintf(describeVoicePrompt, strings.Join(transcripts, "\n\n---\n\n")), 0.4)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// stripCodeFences removes a markdown code fence wrapper, which the model
// adds around JSON despite instructions not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func countWords(s string) int {
	return len(strings.Fields(s))
}
