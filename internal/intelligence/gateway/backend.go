package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single chat-completion request.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Usage reports backend token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the subset of a chat-completion response the gateway reads.
type Response struct {
	Content string
	Usage   Usage
}

// Backend is the raw transport to an inference endpoint.  Implementations do
// not retry; the Gateway owns retry, concurrency and caching.
type Backend interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, req Request) (*Response, error)

// Complete implements Backend.
func (f BackendFunc) Complete(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// StatusError is returned by HTTPBackend for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("inference backend returned %d: %s", e.StatusCode, e.Body)
}

// HTTPBackendConfig configures an OpenAI-compatible chat completions backend.
type HTTPBackendConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPBackend talks to any endpoint exposing POST {base}/chat/completions in
// the OpenAI wire format.
type HTTPBackend struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  logging.Logger
}

// NewHTTPBackend builds an HTTPBackend.  The client timeout is a backstop; the
// gateway applies its own per-attempt deadline.
func NewHTTPBackend(cfg HTTPBackendConfig, logger logging.Logger) (*HTTPBackend, error) {
	if cfg.BaseURL == "" {
		return nil, errors.InvalidParam("inference base URL cannot be empty")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &HTTPBackend{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// Complete implements Backend.
func (b *HTTPBackend) Complete(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode chat request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build chat request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 300)}
	}

	var decoded chatCompletionResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode chat response")
	}
	out := &Response{Usage: decoded.Usage}
	if len(decoded.Choices) > 0 {
		out.Content = strings.TrimSpace(decoded.Choices[0].Message.Content)
	}
	return out, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

//Personal.AI order the ending
