package vlm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// Defaults for the local Ollama-compatible service.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "qwen2.5vl:3b"

	// DefaultAnalyzeTimeout bounds the consolidated analysis call.
	DefaultAnalyzeTimeout = 60 * time.Second

	// DefaultNamingTimeout bounds the lighter naming-only call.
	DefaultNamingTimeout = 120 * time.Second

	chatPath = "/api/chat"
)

// Client talks to the vision-model chat endpoint.
type Client struct {
	baseURL        string
	model          string
	httpClient     *http.Client
	analyzeTimeout time.Duration
	namingTimeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeouts overrides the per-call timeouts.
func WithTimeouts(analyze, naming time.Duration) Option {
	return func(c *Client) {
		c.analyzeTimeout = analyze
		c.namingTimeout = naming
	}
}

// WithHTTPClient substitutes the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the given service URL and model name.
// Empty arguments select the defaults.
func NewClient(baseURL, model string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	c := &Client{
		baseURL:        baseURL,
		model:          model,
		httpClient:     &http.Client{},
		analyzeTimeout: DefaultAnalyzeTimeout,
		namingTimeout:  DefaultNamingTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// chatMessage is one turn of the chat request. Images ride along as base64.
type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

// chatRequest is the fixed wire contract of the service: non-streaming,
// JSON-forced output.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format"`
}

// chatResponse carries the model's reply; Content is itself a JSON-encoded
// string that the caller parses.
type chatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

// chat posts one prompt + image to the service and returns the raw content
// string. Any failure is reported through the Status tag.
func (c *Client) chat(ctx context.Context, prompt, imageB64 string, timeout time.Duration) (string, Status) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt, Images: []string{imageB64}},
		},
		Stream: false,
		Format: "json",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		// Marshal of plain structs cannot fail in practice.
		log.Error().Err(err).Msg("Failed to encode chat request")
		return "", StatusMalformed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return "", StatusUnreachable
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		status := classifyTransportError(err)
		log.Warn().
			Err(err).
			Str("status", status.String()).
			Dur("elapsed", time.Since(start)).
			Msg("Vision model call failed")
		return "", status
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().
			Int("http_status", resp.StatusCode).
			Dur("elapsed", time.Since(start)).
			Msg("Vision model returned non-2xx status")
		return "", StatusUnreachable
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportError(err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Warn().Err(err).Msg("Vision model response envelope is not JSON")
		return "", StatusMalformed
	}
	if parsed.Message.Content == "" {
		log.Warn().Msg("Vision model response has empty content")
		return "", StatusMalformed
	}

	log.Debug().
		Dur("elapsed", time.Since(start)).
		Int("content_length", len(parsed.Message.Content)).
		Msg("Vision model call complete")

	return parsed.Message.Content, StatusSuccess
}

// classifyTransportError separates timeouts from everything else so the
// caller's fallback policy can distinguish a slow service from a dead one.
func classifyTransportError(err error) Status {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return StatusTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return StatusTimeout
	}
	return StatusUnreachable
}

// Ping checks that the service answers at all. Used by preflight before any
// mutation happens; modes that require the model abort when this fails.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("invalid service URL %q: %w", c.baseURL, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vision model service unreachable at %s: %w", c.baseURL, err)
	}
	resp.Body.Close()
	return nil
}
