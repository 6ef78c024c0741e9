package gateway

import (
	"sync"
	"time"
)

const promptPreviewLen = 120

// TokenUsage is cumulative token accounting.
type TokenUsage struct {
	Prompt     int64 `json:"prompt"`
	Completion int64 `json:"completion"`
	Total      int64 `json:"total"`
}

// Snapshot is a read-only copy of GatewayState.
type Snapshot struct {
	Provider          string     `json:"provider"`
	Model             string     `json:"model"`
	ConcurrencyLimit  int        `json:"concurrency_limit"`
	TotalCalls        int64      `json:"total_calls"`
	FailedCalls       int64      `json:"failed_calls"`
	CacheHits         int64      `json:"cache_hits"`
	Retries           int64      `json:"retries"`
	InFlight          int        `json:"in_flight"`
	LastLatencyMs     int64      `json:"last_latency_ms"`
	AvgLatencyMs      float64    `json:"avg_latency_ms"`
	TokensUsed        TokenUsage `json:"tokens_used"`
	LastPromptPreview string     `json:"last_prompt_preview"`
	LastError         string     `json:"last_error,omitempty"`
	Timestamp         time.Time  `json:"timestamp"`
}

// GatewayState holds the counters of one Gateway.  All access goes through
// the mutex; the gateway is the only writer.
type GatewayState struct {
	mu                sync.Mutex
	totalCalls        int64
	failedCalls       int64
	cacheHits         int64
	retries           int64
	inFlight          int
	succeeded         int64
	lastLatency       time.Duration
	avgLatencyMs      float64
	tokens            TokenUsage
	lastPromptPreview string
	lastError         string
}

func (s *GatewayState) recordCacheHit() {
	s.mu.Lock()
	s.cacheHits++
	s.mu.Unlock()
}

func (s *GatewayState) recordCall(prompt string) {
	s.mu.Lock()
	s.totalCalls++
	s.lastPromptPreview = preview(prompt)
	s.mu.Unlock()
}

func (s *GatewayState) recordRetry() {
	s.mu.Lock()
	s.retries++
	s.mu.Unlock()
}

func (s *GatewayState) enter() {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
}

func (s *GatewayState) leave() {
	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
}

// recordSuccess folds latency into the running mean over successful calls.
func (s *GatewayState) recordSuccess(latency time.Duration, usage Usage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.succeeded++
	s.lastLatency = latency
	ms := float64(latency) / float64(time.Millisecond)
	s.avgLatencyMs += (ms - s.avgLatencyMs) / float64(s.succeeded)
	s.tokens.Prompt += int64(usage.PromptTokens)
	s.tokens.Completion += int64(usage.CompletionTokens)
	total := usage.TotalTokens
	if total == 0 {
		total = usage.PromptTokens + usage.CompletionTokens
	}
	s.tokens.Total += int64(total)
	s.lastError = ""
}

func (s *GatewayState) recordFailure(err error) {
	s.mu.Lock()
	s.failedCalls++
	if err != nil {
		s.lastError = err.Error()
	}
	s.mu.Unlock()
}

func (s *GatewayState) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		TotalCalls:        s.totalCalls,
		FailedCalls:       s.failedCalls,
		CacheHits:         s.cacheHits,
		Retries:           s.retries,
		InFlight:          s.inFlight,
		LastLatencyMs:     s.lastLatency.Milliseconds(),
		AvgLatencyMs:      s.avgLatencyMs,
		TokensUsed:        s.tokens,
		LastPromptPreview: s.lastPromptPreview,
		LastError:         s.lastError,
		Timestamp:         time.Now().UTC(),
	}
}

func preview(prompt string) string {
	r := []rune(prompt)
	if len(r) <= promptPreviewLen {
		return prompt
	}
	return string(r[:promptPreviewLen])
}

//Personal.AI order the ending
