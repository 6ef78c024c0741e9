package benchmark

import "time"

// SideResult is the outcome of one path.
type SideResult struct {
	Provider          string  `json:"provider"`
	Model             string  `json:"model"`
	TotalTimeMs       int64   `json:"total_time_ms"`
	AvgTimePerEventMs int64   `json:"avg_time_per_event_ms"`
	CostPerEvent      float64 `json:"cost_per_event"`
	TotalCost         float64 `json:"total_cost"`
	ResultCount       int     `json:"result_count"`
	Error             string  `json:"error,omitempty"`
}

// SpeedComparison is production measured against standard.
type SpeedComparison struct {
	Winner              string  `json:"winner"`
	Speedup             float64 `json:"speedup"`
	PercentageFaster    float64 `json:"percentage_faster"`
	TimeSavedMs         int64   `json:"time_saved_ms"`
	TimeSavedPerEventMs int64   `json:"time_saved_per_event_ms"`
}

// CostComparison uses the configured per-event prices.
type CostComparison struct {
	Winner          string  `json:"winner"`
	CostRatio       float64 `json:"cost_ratio"`
	SavingsPerEvent float64 `json:"savings_per_event"`
	TotalSaved      float64 `json:"total_saved"`
}

// SampleOutput pairs the two summaries produced for one event.
type SampleOutput struct {
	Event            string `json:"event"`
	ProductionOutput string `json:"production_output"`
	StandardOutput   string `json:"standard_output"`
}

// ComparisonReport is returned by Harness.Compare.
type ComparisonReport struct {
	TestDescription string          `json:"test_description"`
	TaskType        string          `json:"task_type"`
	EventsTested    int             `json:"events_tested"`
	Production      SideResult      `json:"production"`
	Standard        SideResult      `json:"standard"`
	Speed           SpeedComparison `json:"speed"`
	Cost            CostComparison  `json:"cost"`
	SampleOutputs   []SampleOutput  `json:"sample_outputs"`
	Timestamp       time.Time       `json:"timestamp"`
}

//Personal.AI order the ending
