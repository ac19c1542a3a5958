// Package llm provides a provider-agnostic LLM client with retry support
// and JSON response extraction.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/engineop/analyzer/metrics"
)

// maxResponseSize limits the LLM response body to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Config contains LLM client configuration
type Config struct {
	Provider string        // "anthropic" or "openai"
	Model    string        // Model identifier
	BaseURL  string        // Empty uses the provider default
	Timeout  time.Duration // HTTP timeout per attempt
}

// DefaultConfig returns default LLM client configuration
func DefaultConfig() Config {
	return Config{
		Provider: "anthropic",
		Model:    "claude-sonnet-4-20250514",
		Timeout:  180 * time.Second,
	}
}

// RetryConfig holds retry configuration for LLM requests.
type RetryConfig struct {
	MaxAttempts       int
	BackoffBase       time.Duration
	BackoffMultiplier float64
	MaxBackoff        time.Duration
}

// DefaultRetryConfig returns sensible retry defaults for LLM requests.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       2 * time.Second,
		BackoffMultiplier: 2.0,
		MaxBackoff:        30 * time.Second,
	}
}

// Response contains an LLM completion result.
type Response struct {
	Content      string
	Model        string
	TokensUsed   int
	FinishReason string
}

// Client sends analysis prompts to an LLM provider.
type Client struct {
	config      Config
	provider    Provider
	httpClient  *http.Client
	retryConfig RetryConfig
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(client *Client) {
		client.retryConfig = cfg
	}
}

// NewClient creates a new LLM client for the configured provider.
func NewClient(config Config, opts ...ClientOption) (*Client, error) {
	provider := GetProvider(config.Provider)
	if provider == nil {
		return nil, fmt.Errorf("unsupported LLM provider %q (available: %v)", config.Provider, ListProviders())
	}

	c := &Client{
		config:      config,
		provider:    provider,
		retryConfig: DefaultRetryConfig(),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Complete sends a prompt to the provider and returns the completion,
// retrying transient failures with exponential backoff. Rate-limited
// responses wait longer between attempts.
func (c *Client) Complete(ctx context.Context, systemPrompt, content string, maxTokens int) (*Response, error) {
	var lastErr error
	backoff := c.retryConfig.BackoffBase

	for attempt := 0; attempt < c.retryConfig.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff = time.Duration(float64(backoff) * c.retryConfig.BackoffMultiplier)
			if backoff > c.retryConfig.MaxBackoff {
				backoff = c.retryConfig.MaxBackoff
			}
		}

		resp, retryable, err := c.doRequest(ctx, systemPrompt, content, maxTokens)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable {
			break
		}
	}

	metrics.LLMFailures.Inc()
	return nil, fmt.Errorf("LLM request failed after %d attempts: %w", c.retryConfig.MaxAttempts, lastErr)
}

// doRequest performs a single completion attempt. The second return value
// reports whether the failure is worth retrying.
func (c *Client) doRequest(ctx context.Context, systemPrompt, content string, maxTokens int) (*Response, bool, error) {
	body, err := c.provider.BuildRequestBody(c.config.Model, systemPrompt, content, maxTokens)
	if err != nil {
		return nil, false, fmt.Errorf("build request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.provider.BuildURL(c.config.BaseURL), bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.provider.SetHeaders(req)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		// Network errors and timeouts are transient
		return nil, true, fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	switch {
	case httpResp.StatusCode == http.StatusOK:
		// Fall through to parse
	case httpResp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("rate limited (HTTP 429): %s", truncateBody(respBody))
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return nil, false, fmt.Errorf("authentication failed (HTTP %d): check the %s API key", httpResp.StatusCode, c.config.Provider)
	case httpResp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error (HTTP %d): %s", httpResp.StatusCode, truncateBody(respBody))
	default:
		return nil, false, fmt.Errorf("unexpected status %d: %s", httpResp.StatusCode, truncateBody(respBody))
	}

	resp, err := c.provider.ParseResponse(respBody)
	if err != nil {
		return nil, false, err
	}
	return resp, false, nil
}

// CompleteJSON sends a prompt expecting a JSON object response and decodes it
// into v. Responses wrapped in markdown code fences or surrounding prose are
// handled by ExtractJSON.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, content string, maxTokens int, v interface{}) error {
	resp, err := c.Complete(ctx, systemPrompt, content, maxTokens)
	if err != nil {
		return err
	}

	raw := ExtractJSON(resp.Content)
	if raw == "" {
		return fmt.Errorf("no JSON object found in LLM response")
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode LLM JSON response: %w", err)
	}
	return nil
}

// truncateBody limits error message payloads to a readable length
func truncateBody(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
