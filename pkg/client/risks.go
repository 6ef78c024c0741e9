package client

import (
	"context"
	"time"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/risk"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/weather"
)

// Wire types shared with the server.
type (
	Risk            = risk.Risk
	Supplier        = supplier.Supplier
	Event           = event.Event
	SimulateRequest = event.SimulateRequest
	Weather         = weather.Observation
)

// Supplier list modes.
const (
	ModeLive     = "live"
	ModeFallback = "fallback"
)

// Headers carrying the /suppliers overlay mode and fallback cause.
const (
	SupplierModeHeader  = "X-Supplier-Mode"
	SupplierErrorHeader = "X-Supplier-Error"
)

// SupplierList is the /suppliers roster plus its response headers.  Mode is
// ModeFallback when the roster store failed and a degraded list was served;
// Error then says why.
type SupplierList struct {
	Mode      string     `json:"mode"`
	Suppliers []Supplier `json:"suppliers"`
	Error     string     `json:"error,omitempty"`
}

// SimulateResult is the /simulate response.
type SimulateResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Event   Event  `json:"event"`
	Risks   []Risk `json:"risks"`
}

// BenchmarkRequest selects the benchmark sample.  Zero values use the server
// defaults.
type BenchmarkRequest struct {
	SampleSize int    `json:"sampleSize,omitempty"`
	TaskType   string `json:"taskType,omitempty"`
}

// BenchmarkSide is the timing and cost of one inference path.
type BenchmarkSide struct {
	Provider          string  `json:"provider"`
	Model             string  `json:"model"`
	TotalTimeMs       int64   `json:"total_time_ms"`
	AvgTimePerEventMs int64   `json:"avg_time_per_event_ms"`
	CostPerEvent      float64 `json:"cost_per_event"`
	TotalCost         float64 `json:"total_cost"`
	ResultCount       int     `json:"result_count"`
	Error             string  `json:"error,omitempty"`
}

// BenchmarkReport is the /benchmark response.
type BenchmarkReport struct {
	TestDescription string        `json:"test_description"`
	TaskType        string        `json:"task_type"`
	EventsTested    int           `json:"events_tested"`
	Production      BenchmarkSide `json:"production"`
	Standard        BenchmarkSide `json:"standard"`
	Speed           struct {
		Winner              string  `json:"winner"`
		Speedup             float64 `json:"speedup"`
		PercentageFaster    float64 `json:"percentage_faster"`
		TimeSavedMs         int64   `json:"time_saved_ms"`
		TimeSavedPerEventMs int64   `json:"time_saved_per_event_ms"`
	} `json:"speed"`
	Cost struct {
		Winner          string  `json:"winner"`
		CostRatio       float64 `json:"cost_ratio"`
		SavingsPerEvent float64 `json:"savings_per_event"`
		TotalSaved      float64 `json:"total_saved"`
	} `json:"cost"`
	SampleOutputs []struct {
		Event            string `json:"event"`
		ProductionOutput string `json:"production_output"`
		StandardOutput   string `json:"standard_output"`
	} `json:"sample_outputs"`
	Timestamp time.Time `json:"timestamp"`
}

// GatewayMetrics is the /metrics/gateway response.
type GatewayMetrics struct {
	Provider         string  `json:"provider"`
	Model            string  `json:"model"`
	ConcurrencyLimit int     `json:"concurrency_limit"`
	TotalCalls       int64   `json:"total_calls"`
	FailedCalls      int64   `json:"failed_calls"`
	CacheHits        int64   `json:"cache_hits"`
	Retries          int64   `json:"retries"`
	InFlight         int     `json:"in_flight"`
	LastLatencyMs    int64   `json:"last_latency_ms"`
	AvgLatencyMs     float64 `json:"avg_latency_ms"`
	TokensUsed       struct {
		Prompt     int64 `json:"prompt"`
		Completion int64 `json:"completion"`
		Total      int64 `json:"total"`
	} `json:"tokens_used"`
	LastPromptPreview string    `json:"last_prompt_preview"`
	LastError         string    `json:"last_error,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// RisksClient reads and simulates risks.
type RisksClient struct {
	client *Client
}

// List fetches live events and returns the enriched risks.  The call waits
// for a full enrichment pass.
func (r *RisksClient) List(ctx context.Context) ([]Risk, error) {
	var out []Risk
	if _, err := r.client.get(ctx, apiPrefix+"/risks", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Risk{}
	}
	return out, nil
}

// Latest returns the risks from the server's most recent enrichment pass
// without starting a new one.
func (r *RisksClient) Latest(ctx context.Context) ([]Risk, error) {
	var out []Risk
	if _, err := r.client.get(ctx, apiPrefix+"/risks?cached=true", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Risk{}
	}
	return out, nil
}

// Simulate injects a synthetic event and returns the risks it produced.
func (r *RisksClient) Simulate(ctx context.Context, req SimulateRequest) (*SimulateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out SimulateResult
	if _, err := r.client.post(ctx, apiPrefix+"/simulate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// News returns the raw event feed the server would enrich next.
func (c *Client) News(ctx context.Context) ([]Event, error) {
	var out []Event
	if _, err := c.get(ctx, apiPrefix+"/news", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Event{}
	}
	return out, nil
}

// Weather returns current conditions for the watched cities.  The server
// answers 503 when no weather source is configured.
func (c *Client) Weather(ctx context.Context) ([]Weather, error) {
	var out []Weather
	if _, err := c.get(ctx, apiPrefix+"/weather", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Weather{}
	}
	return out, nil
}

// SuppliersClient reads the supplier roster with its risk overlay.
type SuppliersClient struct {
	client *Client
}

// List returns the merged roster.  A fallback list is not an error; check
// SupplierList.Mode.
func (s *SuppliersClient) List(ctx context.Context) (*SupplierList, error) {
	var suppliers []Supplier
	hdr, err := s.client.get(ctx, apiPrefix+"/suppliers", &suppliers)
	if err != nil {
		return nil, err
	}
	out := &SupplierList{
		Mode:      hdr.Get(SupplierModeHeader),
		Suppliers: suppliers,
		Error:     hdr.Get(SupplierErrorHeader),
	}
	if out.Mode == "" {
		out.Mode = ModeLive
	}
	if out.Suppliers == nil {
		out.Suppliers = []Supplier{}
	}
	return out, nil
}

//Personal.AI order the ending
