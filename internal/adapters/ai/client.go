// Package ai adapts the Gemini API to the core's AICompleter port. The
// adapter owns throttling and retries so the core never sees transient
// collaborator noise, only a clean answer or ErrAIUnavailable.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/statement_ledger_app/internal/core/ports/services"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Config carries the collaborator settings.
type Config struct {
	APIKey            string
	Model             string
	RequestsPerMinute int
	MaxAttempts       int
}

// GeminiCompleter implements the AICompleter port against the Gemini API.
type GeminiCompleter struct {
	client      *genai.Client
	model       string
	limiter     *rate.Limiter
	maxAttempts int
	logger      *slog.Logger
}

var _ portssvc.AICompleter = (*GeminiCompleter)(nil)

// NewGeminiCompleter creates a Gemini-backed completer. When no API key is
// configured it returns nil and the caller wires a degraded-mode core.
func NewGeminiCompleter(ctx context.Context, cfg Config, logger *slog.Logger) (*GeminiCompleter, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	return &GeminiCompleter{
		client:      client,
		model:       cfg.Model,
		limiter:     rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		maxAttempts: cfg.MaxAttempts,
		logger:      logger,
	}, nil
}

// Complete sends one prompt to the model and returns its text reply. The call
// blocks on the request-rate throttle, then retries transient failures with
// exponential backoff and jitter before giving up with ErrAIUnavailable.
func (c *GeminiCompleter) Complete(ctx context.Context, prompt string, systemPrompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", portssvc.ErrAIUnavailable, err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	genCfg := &genai.GenerateContentConfig{}
	if systemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	backoff := retry.WithMaxRetries(uint64(c.maxAttempts-1),
		retry.WithJitter(250*time.Millisecond, retry.NewExponential(time.Second)))

	var text string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
		if err != nil {
			c.logger.Warn("Model request failed, will retry", slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}
		text = resp.Text()
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", portssvc.ErrAIUnavailable, err)
	}
	return text, nil
}
