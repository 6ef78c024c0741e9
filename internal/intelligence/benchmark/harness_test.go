package benchmark

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/enricher"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/gateway"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type completerFunc func(ctx context.Context, prompt string, opts ...gateway.Option) (string, error)

func (f completerFunc) Complete(ctx context.Context, prompt string, opts ...gateway.Option) (string, error) {
	return f(ctx, prompt, opts...)
}

func sampleEvents() []event.Event {
	return []event.Event{
		{Headline: "Port strike in Chennai", Location: "Chennai, India", Date: "2026-10-01", Severity: "high", RelevanceScore: event.Relevance(0.8)},
		{Headline: "Rail freight delays", Location: "Berlin, Germany", Date: "2026-10-02", RelevanceScore: event.Relevance(0.6)},
	}
}

func newHarness(t *testing.T, clock *fakeClock, prod gateway.Completer) *Harness {
	t.Helper()
	std := NewSimulatedStandard(SimulatedConfig{})
	std.sleep = func(_ context.Context, d time.Duration) error {
		clock.Advance(d)
		return nil
	}
	h, err := New(
		Path{Provider: "cerebras", Model: "llama3.1-8b", CostPerEvent: 0.002, Completer: prod},
		Path{Provider: "standard-llm", Model: "gpt-class-standard", CostPerEvent: 0.015, Completer: std},
		WithClock(clock.Now),
	)
	require.NoError(t, err)
	return h
}

func TestCompare_ReportsSpeedAndCost(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	var noCache bool
	prod := completerFunc(func(_ context.Context, prompt string, opts ...gateway.Option) (string, error) {
		var o gateway.Options
		for _, fn := range opts {
			fn(&o)
		}
		noCache = o.NoCache
		clock.Advance(500 * time.Millisecond)
		return `[{"risk_score":0.8,"summary":"Chennai port halted"},{"risk_score":0.5}]`, nil
	})
	h := newHarness(t, clock, prod)

	r := h.Compare(context.Background(), sampleEvents(), "")

	assert.True(t, noCache)
	assert.Equal(t, DefaultTaskType, r.TaskType)
	assert.Equal(t, 2, r.EventsTested)
	assert.Equal(t, int64(500), r.Production.TotalTimeMs)
	assert.Equal(t, int64(250), r.Production.AvgTimePerEventMs)
	// 800ms + 200 tokens at 40 tok/s
	assert.Equal(t, int64(5800), r.Standard.TotalTimeMs)
	assert.Equal(t, 11.6, r.Speed.Speedup)
	assert.Equal(t, int64(5300), r.Speed.TimeSavedMs)
	assert.Equal(t, int64(2650), r.Speed.TimeSavedPerEventMs)
	assert.Equal(t, 91.4, r.Speed.PercentageFaster)
	assert.Equal(t, "production", r.Speed.Winner)

	assert.Equal(t, 0.004, r.Production.TotalCost)
	assert.Equal(t, 0.03, r.Standard.TotalCost)
	assert.Equal(t, 0.013, r.Cost.SavingsPerEvent)
	assert.Equal(t, 0.026, r.Cost.TotalSaved)
	assert.Equal(t, 7.5, r.Cost.CostRatio)

	require.Len(t, r.SampleOutputs, 2)
	assert.Equal(t, "Port strike in Chennai", r.SampleOutputs[0].Event)
	assert.Equal(t, "Chennai port halted", r.SampleOutputs[0].ProductionOutput)
	assert.Equal(t, "N/A", r.SampleOutputs[1].ProductionOutput)
	assert.Equal(t, "Supply chain risk detected for Chennai, India", r.SampleOutputs[0].StandardOutput)
	assert.Equal(t, "Supply chain risk detected for Berlin, Germany", r.SampleOutputs[1].StandardOutput)
	assert.Equal(t, 2, r.Standard.ResultCount)
}

func TestCompare_FailingProductionPathStillReports(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	prod := completerFunc(func(context.Context, string, ...gateway.Option) (string, error) {
		return "", errors.New(errors.ErrCodeModelUnavailable, "inference backend unavailable")
	})
	h := newHarness(t, clock, prod)

	r := h.Compare(context.Background(), sampleEvents(), "risk_analysis")
	assert.Equal(t, 0, r.Production.ResultCount)
	assert.Contains(t, r.Production.Error, "AI_001")
	assert.Equal(t, "N/A", r.SampleOutputs[0].ProductionOutput)
	assert.Equal(t, 2, r.Standard.ResultCount)
	assert.Equal(t, 0.0, r.Speed.Speedup)
}

func TestCompare_ReportIsJSON(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	h := newHarness(t, clock, completerFunc(func(context.Context, string, ...gateway.Option) (string, error) {
		clock.Advance(time.Second)
		return "[]", nil
	}))
	raw, err := json.Marshal(h.Compare(context.Background(), sampleEvents(), ""))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, k := range []string{"speed", "cost", "production", "standard", "sample_outputs", "events_tested"} {
		assert.Contains(t, decoded, k)
	}
}

func TestNew_RequiresBothPaths(t *testing.T) {
	_, err := New(Path{}, Path{Completer: NewSimulatedStandard(SimulatedConfig{})})
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestSelectSample(t *testing.T) {
	events := []event.Event{
		{Headline: "a", Location: "Chennai, India", RelevanceScore: event.Relevance(0.9)},
		{Headline: "b", Location: "", RelevanceScore: event.Relevance(0.9)},
		{Headline: "c", Location: "Tokyo, Japan", RelevanceScore: event.Relevance(0.3)},
		{Headline: "d", Location: "Tokyo, Japan"},
		{Headline: "e", Location: "Paris, France", RelevanceScore: event.Relevance(0.5)},
	}

	got := SelectSample(events, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Headline)
	assert.Equal(t, "medium", got[0].Severity)
	assert.NotEmpty(t, got[0].Date)

	assert.Len(t, SelectSample(events, 10), 2)
	assert.Empty(t, SelectSample(nil, 3))
}

func TestSimulatedStandard(t *testing.T) {
	s := NewSimulatedStandard(SimulatedConfig{Scale: 0.001})
	assert.Equal(t, 5800*time.Microsecond, s.Latency(2))

	prompt := enricher.BuildPrompt(sampleEvents())
	out1, err := s.Complete(context.Background(), prompt)
	require.NoError(t, err)
	out2, _ := s.Complete(context.Background(), prompt)
	assert.Equal(t, out1, out2)

	var parsed []mockAssessment
	require.NoError(t, json.Unmarshal([]byte(out1), &parsed))
	require.Len(t, parsed, 2)
	for _, p := range parsed {
		assert.GreaterOrEqual(t, p.RiskScore, 0.3)
		assert.Less(t, p.RiskScore, 0.8)
		assert.Equal(t, mockLevel(p.RiskScore), p.RiskLevel)
	}
}

func TestSimulatedStandard_Cancelled(t *testing.T) {
	s := NewSimulatedStandard(SimulatedConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Complete(ctx, enricher.BuildPrompt(sampleEvents()))
	assert.ErrorIs(t, err, context.Canceled)
}

//Personal.AI order the ending
