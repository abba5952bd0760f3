// Package ai wraps the Gemini SDK behind a one-method Generator so the
// planning services can be tested against a stub.
package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Generator produces a free-text completion for a prompt. The completion is
// expected to contain one JSON object, possibly wrapped in prose or markdown
// fencing; callers must never assume clean JSON.
type Generator interface {
	GenerateResponse(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

var _ Generator = (*GeminiClient)(nil)

// GeminiClient is the production Generator backed by the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// ModelName returns the configured model identifier.
func (c *GeminiClient) ModelName() string {
	return c.model
}

func (c *GeminiClient) GenerateResponse(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	start := time.Now()
	response, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	latency := time.Since(start)

	if err != nil {
		c.logger.Error("Model call failed",
			zap.String("model", c.model),
			zap.Duration("latency", latency),
			zap.Error(err))
		return "", fmt.Errorf("model call failed: %w", err)
	}

	var txt string
	for _, candidate := range response.Candidates {
		if candidate.Content != nil && len(candidate.Content.Parts) > 0 {
			txt = candidate.Content.Parts[0].Text
			break
		}
	}
	if txt == "" {
		return "", fmt.Errorf("no valid content in model response")
	}

	fields := []zap.Field{
		zap.String("model", c.model),
		zap.Duration("latency", latency),
		zap.Int("response_length", len(txt)),
	}
	if response.UsageMetadata != nil {
		fields = append(fields,
			zap.Int32("prompt_tokens", response.UsageMetadata.PromptTokenCount),
			zap.Int32("completion_tokens", response.UsageMetadata.CandidatesTokenCount),
		)
	}
	c.logger.Debug("Model call completed", fields...)

	return txt, nil
}
