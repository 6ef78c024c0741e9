// Package benchmark times the production inference path against a standard
// one on the same risk prompt and reports speed and cost deltas.
package benchmark

import (
	"context"
	"math"
	"time"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/enricher"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/gateway"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/parser"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

const (
	DefaultTaskType   = "risk_analysis"
	DefaultSampleSize = 3
	// MinSampleRelevance is the relevance an event needs to be benchmarked.
	MinSampleRelevance = 0.5

	notAvailable    = "N/A"
	testDescription = "Supply Chain Risk Analysis Benchmark"
)

// Path is one side of the comparison.
type Path struct {
	Provider     string
	Model        string
	CostPerEvent float64
	Completer    gateway.Completer
}

// Harness runs comparisons.
type Harness struct {
	production Path
	standard   Path
	logger     logging.Logger
	now        func() time.Time
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithClock overrides the clock used for timing and the report timestamp.
func WithClock(now func() time.Time) Option {
	return func(h *Harness) {
		if now != nil {
			h.now = now
		}
	}
}

// New builds a Harness.  Both paths need a Completer.
func New(production, standard Path, opts ...Option) (*Harness, error) {
	if production.Completer == nil || standard.Completer == nil {
		return nil, errors.InvalidParam("benchmark requires both a production and a standard completer")
	}
	h := &Harness{
		production: production,
		standard:   standard,
		logger:     logging.NewNopLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.Named("benchmark")
	return h, nil
}

// SelectSample takes the first size events and keeps those with a location
// and a relevance of at least MinSampleRelevance.
func SelectSample(events []event.Event, size int) []event.Event {
	if size <= 0 {
		size = DefaultSampleSize
	}
	if size > len(events) {
		size = len(events)
	}
	out := make([]event.Event, 0, size)
	for _, e := range events[:size] {
		rel, ok := e.Relevance()
		if e.Location == "" || !ok || rel < MinSampleRelevance {
			continue
		}
		if e.Date == "" {
			e.Date = time.Now().UTC().Format(time.RFC3339)
		}
		if e.Severity == "" {
			e.Severity = event.SeverityMedium
		}
		out = append(out, e)
	}
	return out
}

// Compare sends the same prompt down both paths.  A failing path contributes
// an empty result set; the comparison itself never fails.
func (h *Harness) Compare(ctx context.Context, events []event.Event, taskType string) *ComparisonReport {
	if taskType == "" {
		taskType = DefaultTaskType
	}
	prompt := enricher.BuildPrompt(events)

	prodResults, prodTime, prodErr := h.run(ctx, h.production, prompt, gateway.WithoutCache())
	stdResults, stdTime, stdErr := h.run(ctx, h.standard, prompt)

	n := len(events)
	report := &ComparisonReport{
		TestDescription: testDescription,
		TaskType:        taskType,
		EventsTested:    n,
		Production:      sideResult(h.production, prodTime, n, len(prodResults), prodErr),
		Standard:        sideResult(h.standard, stdTime, n, len(stdResults), stdErr),
		Speed:           speedComparison(prodTime, stdTime, n),
		Cost:            costComparison(h.production.CostPerEvent, h.standard.CostPerEvent, n),
		SampleOutputs:   make([]SampleOutput, n),
		Timestamp:       h.now().UTC(),
	}
	for i, e := range events {
		report.SampleOutputs[i] = SampleOutput{
			Event:            e.Headline,
			ProductionOutput: summaryAt(prodResults, i),
			StandardOutput:   summaryAt(stdResults, i),
		}
	}

	h.logger.Info("benchmark complete",
		logging.Int("events", n),
		logging.Duration("production", prodTime),
		logging.Duration("standard", stdTime),
		logging.Float64("speedup", report.Speed.Speedup))
	return report
}

func (h *Harness) run(ctx context.Context, p Path, prompt string, opts ...gateway.Option) ([]map[string]any, time.Duration, error) {
	start := h.now()
	raw, err := p.Completer.Complete(ctx, prompt, opts...)
	elapsed := h.now().Sub(start)
	if err != nil {
		h.logger.Warn("benchmark path failed", logging.String("provider", p.Provider), logging.Err(err))
		return nil, elapsed, err
	}
	parsed := parser.Parse(raw)
	if parsed == nil {
		h.logger.Warn("benchmark output unparseable", logging.String("provider", p.Provider))
	}
	return parsed, elapsed, nil
}

func summaryAt(results []map[string]any, i int) string {
	if i >= len(results) || results[i] == nil {
		return notAvailable
	}
	if s, ok := results[i]["summary"].(string); ok && s != "" {
		return s
	}
	return notAvailable
}

func sideResult(p Path, elapsed time.Duration, events, results int, err error) SideResult {
	r := SideResult{
		Provider:     p.Provider,
		Model:        p.Model,
		TotalTimeMs:  elapsed.Milliseconds(),
		CostPerEvent: p.CostPerEvent,
		TotalCost:    round(p.CostPerEvent*float64(events), 3),
		ResultCount:  results,
	}
	if events > 0 {
		r.AvgTimePerEventMs = elapsed.Milliseconds() / int64(events)
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

func speedComparison(prod, std time.Duration, events int) SpeedComparison {
	s := SpeedComparison{TimeSavedMs: (std - prod).Milliseconds()}
	if prod > 0 {
		s.Speedup = round(float64(std)/float64(prod), 1)
	}
	if std > 0 {
		s.PercentageFaster = round(float64(std-prod)/float64(std)*100, 1)
	}
	if events > 0 {
		s.TimeSavedPerEventMs = s.TimeSavedMs / int64(events)
	}
	s.Winner = winner(prod < std)
	return s
}

func costComparison(prod, std float64, events int) CostComparison {
	c := CostComparison{
		SavingsPerEvent: round(std-prod, 3),
		TotalSaved:      round((std-prod)*float64(events), 3),
	}
	if prod > 0 {
		c.CostRatio = round(std/prod, 1)
	}
	c.Winner = winner(prod < std)
	return c
}

func winner(productionAhead bool) string {
	if productionAhead {
		return "production"
	}
	return "standard"
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

//Personal.AI order the ending
