package prometheus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAppMetrics_RecordHelpers(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	RecordHTTPRequest(m, "GET", "/api/v1/risks", 200, 40*time.Millisecond)
	RecordLLMCall(m, "llama3.1-8b", true, time.Second, 120, 80)
	RecordLLMCall(m, "llama3.1-8b", false, time.Second, 0, 0)
	RecordLLMRetry(m, "llama3.1-8b", "rate_limited")
	RecordLLMInFlight(m, "llama3.1-8b", 1)
	RecordCacheAccess(m, "llm", true)
	RecordCacheAccess(m, "geo", false)
	RecordGeocode(m, "fallback_table")
	RecordEventFiltered(m, "global_location")
	RecordRiskEmitted(m, "HIGH")
	RecordBatch(m, 2*time.Second, "model_error")
	RecordMessageProcessed(m, "riskradar.events", time.Second)
	RecordError(m, "gateway", "AI_001")

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_http_requests_total{method="GET",path="/api/v1/risks",status_code="200"} 1`)
	assert.Contains(t, out, `test_unit_llm_requests_total{model="llama3.1-8b",status="failure"} 1`)
	assert.Contains(t, out, `test_unit_llm_tokens_total{direction="prompt",model="llama3.1-8b"} 120`)
	assert.Contains(t, out, `test_unit_llm_retries_total{model="llama3.1-8b",reason="rate_limited"} 1`)
	assert.Contains(t, out, `test_unit_cache_misses_total{cache="geo"} 1`)
	assert.Contains(t, out, `test_unit_geocode_lookups_total{outcome="fallback_table"} 1`)
	assert.Contains(t, out, `test_unit_batch_fallbacks_total{reason="model_error"} 1`)
	assert.Contains(t, out, `test_unit_risks_emitted_total{level="HIGH"} 1`)
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordHTTPRequest(nil, "GET", "/", 200, time.Millisecond)
		RecordLLMCall(nil, "m", true, time.Millisecond, 1, 1)
		RecordLLMRetry(nil, "m", "x")
		RecordLLMInFlight(nil, "m", 1)
		RecordCacheAccess(nil, "c", true)
		RecordGeocode(nil, "o")
		RecordEventFiltered(nil, "r")
		RecordRiskEmitted(nil, "LOW")
		RecordBatch(nil, time.Millisecond, "")
		RecordMessageProcessed(nil, "t", time.Millisecond)
		RecordError(nil, "c", "e")
	})
}

//Personal.AI order the ending
