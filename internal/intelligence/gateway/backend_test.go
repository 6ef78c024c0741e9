package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

func TestNewHTTPBackend_RequiresURL(t *testing.T) {
	_, err := NewHTTPBackend(HTTPBackendConfig{}, nil)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestHTTPBackend_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.1-8b", req.Model)
		assert.Equal(t, 512, req.MaxTokens)
		assert.Len(t, req.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  [{\"risk_score\":0.8}]\n"}}],
			"usage":{"prompt_tokens":120,"completion_tokens":30,"total_tokens":150}}`))
	}))
	defer srv.Close()

	b, err := NewHTTPBackend(HTTPBackendConfig{BaseURL: srv.URL + "/v1/", APIKey: "secret"}, nil)
	require.NoError(t, err)

	resp, err := b.Complete(context.Background(), Request{
		Model: "llama3.1-8b", MaxTokens: 512,
		Messages: []Message{{Role: "system", Content: "s"}, {Role: "user", Content: "u"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `[{"risk_score":0.8}]`, resp.Content)
	assert.Equal(t, Usage{PromptTokens: 120, CompletionTokens: 30, TotalTokens: 150}, resp.Usage)
}

func TestHTTPBackend_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	b, _ := NewHTTPBackend(HTTPBackendConfig{BaseURL: srv.URL}, nil)
	_, err := b.Complete(context.Background(), Request{Model: "m"})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 429, se.StatusCode)
	assert.Contains(t, se.Error(), "rate limited")
}

func TestHTTPBackend_EmptyChoicesRetriedThroughGateway(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		if hits == 1 {
			_, _ = w.Write([]byte(`{"choices":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	b, _ := NewHTTPBackend(HTTPBackendConfig{BaseURL: srv.URL}, nil)
	g, err := New(testConfig(), b, WithSleeper((&recordedSleeps{}).sleep))
	require.NoError(t, err)

	out, err := g.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 2, hits)
}

func TestClassify(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		resp   *Response
		err    error
		kind   attemptKind
		reason string
	}{
		{"ok", &Response{Content: "x"}, nil, attemptOK, ""},
		{"empty", &Response{}, nil, attemptTransient, "empty_response"},
		{"nil response", nil, nil, attemptTransient, "empty_response"},
		{"429", nil, &StatusError{StatusCode: 429}, attemptTransient, "rate_limited"},
		{"502", nil, &StatusError{StatusCode: 502}, attemptTransient, "server_error"},
		{"401", nil, &StatusError{StatusCode: 401}, attemptFatal, "rejected"},
		{"deadline", nil, context.DeadlineExceeded, attemptTransient, "timeout"},
		{"decode", nil, errors.New(errors.ErrCodeSerialization, "bad json"), attemptTransient, "malformed_response"},
		{"quota text", nil, errors.New(errors.ErrCodeInternal, "Quota exceeded"), attemptTransient, "quota_exceeded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := classify(ctx, tt.resp, tt.err)
			assert.Equal(t, tt.kind, r.kind, r.kind.String())
			assert.Equal(t, tt.reason, r.reason)
		})
	}
}

//Personal.AI order the ending
