package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds the service metrics.  A nil *AppMetrics is valid: every
// Record helper is a no-op on nil so components can run without metrics.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Inference gateway
	LLMRequestsTotal   CounterVec
	LLMRequestDuration HistogramVec
	LLMTokensUsed      CounterVec
	LLMRetriesTotal    CounterVec
	LLMInFlight        GaugeVec

	// Enrichment pipeline
	EventsFilteredTotal CounterVec
	RisksEmittedTotal   CounterVec
	BatchFallbacksTotal CounterVec
	BatchDuration       HistogramVec

	// Geocoding
	GeocodeLookupsTotal CounterVec

	// Caches
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	// Worker
	MessageProcessDuration HistogramVec

	ErrorsTotal CounterVec
}

// Default buckets.
var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	DefaultLLMDurationBuckets   = []float64{.1, .25, .5, 1, 2, 5, 10, 30, 60, 120}
	DefaultBatchDurationBuckets = []float64{.5, 1, 2, 5, 10, 30, 60, 120, 300}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.LLMRequestsTotal = collector.RegisterCounter("llm_requests_total", "Logical inference requests", "model", "status")
	m.LLMRequestDuration = collector.RegisterHistogram("llm_request_duration_seconds", "Inference request latency including retries", DefaultLLMDurationBuckets, "model")
	m.LLMTokensUsed = collector.RegisterCounter("llm_tokens_total", "Tokens reported by the inference backend", "model", "direction")
	m.LLMRetriesTotal = collector.RegisterCounter("llm_retries_total", "Retried inference attempts", "model", "reason")
	m.LLMInFlight = collector.RegisterGauge("llm_in_flight", "Inference requests holding a limiter slot", "model")

	m.EventsFilteredTotal = collector.RegisterCounter("events_filtered_total", "Events dropped before prompting", "reason")
	m.RisksEmittedTotal = collector.RegisterCounter("risks_emitted_total", "Risk records returned by the enricher", "level")
	m.BatchFallbacksTotal = collector.RegisterCounter("batch_fallbacks_total", "Batches that fell back to manual-review risks", "reason")
	m.BatchDuration = collector.RegisterHistogram("batch_duration_seconds", "Enrichment batch duration", DefaultBatchDurationBuckets)

	m.GeocodeLookupsTotal = collector.RegisterCounter("geocode_lookups_total", "Geocoding resolutions by outcome", "outcome")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")

	m.MessageProcessDuration = collector.RegisterHistogram("mq_process_duration_seconds", "Message processing duration", DefaultBatchDurationBuckets, "topic")

	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_code")

	return m
}

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordLLMCall(metrics *AppMetrics, model string, success bool, duration time.Duration, promptTokens, completionTokens int) {
	if metrics == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	metrics.LLMRequestsTotal.WithLabelValues(model, status).Inc()
	metrics.LLMRequestDuration.WithLabelValues(model).Observe(duration.Seconds())
	if promptTokens > 0 {
		metrics.LLMTokensUsed.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		metrics.LLMTokensUsed.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
}

func RecordLLMRetry(metrics *AppMetrics, model, reason string) {
	if metrics == nil {
		return
	}
	metrics.LLMRetriesTotal.WithLabelValues(model, reason).Inc()
}

func RecordLLMInFlight(metrics *AppMetrics, model string, delta float64) {
	if metrics == nil {
		return
	}
	metrics.LLMInFlight.WithLabelValues(model).Add(delta)
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if metrics == nil {
		return
	}
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordGeocode(metrics *AppMetrics, outcome string) {
	if metrics == nil {
		return
	}
	metrics.GeocodeLookupsTotal.WithLabelValues(outcome).Inc()
}

func RecordEventFiltered(metrics *AppMetrics, reason string) {
	if metrics == nil {
		return
	}
	metrics.EventsFilteredTotal.WithLabelValues(reason).Inc()
}

func RecordRiskEmitted(metrics *AppMetrics, level string) {
	if metrics == nil {
		return
	}
	metrics.RisksEmittedTotal.WithLabelValues(level).Inc()
}

func RecordBatch(metrics *AppMetrics, duration time.Duration, fallbackReason string) {
	if metrics == nil {
		return
	}
	metrics.BatchDuration.WithLabelValues().Observe(duration.Seconds())
	if fallbackReason != "" {
		metrics.BatchFallbacksTotal.WithLabelValues(fallbackReason).Inc()
	}
}

func RecordMessageProcessed(metrics *AppMetrics, topic string, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.MessageProcessDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

func RecordError(metrics *AppMetrics, component, code string) {
	if metrics == nil {
		return
	}
	metrics.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending
