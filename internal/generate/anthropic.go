package generate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultMaxTokens      = 4096
	transportMaxRetries   = 3
	transportInitialDelay = 1 * time.Second
)

// errAPIKeyRequired is returned when no API key is available.
var errAPIKeyRequired = errors.New("API key required")

// AnthropicConfig configures the Anthropic-backed generator.
type AnthropicConfig struct {
	APIKey       string        // optional; ANTHROPIC_API_KEY env var takes precedence
	FastModel    string        // model ID for TierFast
	QualityModel string        // model ID for TierQuality
	Timeout      time.Duration // per-call deadline; 0 disables
}

// Anthropic is a Generator backed by the Anthropic Messages API.
// Rate limits and server errors are retried with exponential backoff at the
// transport level; callers still observe a single logical attempt.
type Anthropic struct {
	client       anthropic.Client
	fastModel    anthropic.Model
	qualityModel anthropic.Model
	timeout      time.Duration
}

// NewAnthropic creates an Anthropic generator. Env var ANTHROPIC_API_KEY
// takes precedence over the configured key.
func NewAnthropic(cfg AnthropicConfig) (*Anthropic, error) {
	apiKey := cfg.APIKey
	if envKey := os.Getenv("ANTHROPIC_API_KEY"); envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY environment variable or provide via config", errAPIKeyRequired)
	}
	if cfg.FastModel == "" || cfg.QualityModel == "" {
		return nil, fmt.Errorf("both fast and quality model IDs must be configured")
	}

	return &Anthropic{
		client:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		fastModel:    anthropic.Model(cfg.FastModel),
		qualityModel: anthropic.Model(cfg.QualityModel),
		timeout:      cfg.Timeout,
	}, nil
}

// Generate performs one generation call against the tier's configured model.
func (a *Anthropic) Generate(ctx context.Context, req Request) (string, error) {
	if err := req.Tier.Validate(); err != nil {
		return "", err
	}
	if req.Prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	model := a.qualityModel
	if req.Tier == TierFast {
		model = a.fastModel
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	var lastErr error
	for attempt := 0; attempt <= transportMaxRetries; attempt++ {
		if attempt > 0 {
			delay := transportInitialDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		message, err := a.client.Messages.New(ctx, params)
		if err == nil {
			if len(message.Content) == 0 {
				return "", fmt.Errorf("unexpected response format: no content blocks")
			}
			content := message.Content[0]
			if content.Type != "text" {
				return "", fmt.Errorf("unexpected response format: not a text block (type=%s)", content.Type)
			}
			return content.Text, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !isRetryable(err) {
			return "", fmt.Errorf("non-retryable error: %w", err)
		}
	}

	return "", fmt.Errorf("failed after %d retries: %w", transportMaxRetries+1, lastErr)
}

// isRetryable reports whether a transport error is worth retrying:
// network timeouts, rate limits (429) and server errors (5xx).
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	return false
}
