package benchmark

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/gateway"
)

// SimulatedConfig models a conventional hosted LLM: a fixed time to first
// token followed by steady generation.
type SimulatedConfig struct {
	BaseLatency     time.Duration
	TokensPerEvent  int
	TokensPerSecond float64
	// Scale multiplies every simulated delay.  Zero means 1.
	Scale float64
}

func (c *SimulatedConfig) applyDefaults() {
	if c.BaseLatency <= 0 {
		c.BaseLatency = 800 * time.Millisecond
	}
	if c.TokensPerEvent <= 0 {
		c.TokensPerEvent = 100
	}
	if c.TokensPerSecond <= 0 {
		c.TokensPerSecond = 40
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
}

// SimulatedStandard is a gateway.Completer that answers risk prompts after
// the latency a standard backend would need.  Answers are a pure function of
// the prompt.
type SimulatedStandard struct {
	cfg   SimulatedConfig
	sleep func(ctx context.Context, d time.Duration) error
}

var _ gateway.Completer = (*SimulatedStandard)(nil)

// NewSimulatedStandard builds a SimulatedStandard.
func NewSimulatedStandard(cfg SimulatedConfig) *SimulatedStandard {
	cfg.applyDefaults()
	return &SimulatedStandard{cfg: cfg, sleep: sleepCtx}
}

// Latency is the simulated wall time for a prompt covering n events.
func (s *SimulatedStandard) Latency(n int) time.Duration {
	gen := float64(n*s.cfg.TokensPerEvent) / s.cfg.TokensPerSecond * float64(time.Second)
	return time.Duration((float64(s.cfg.BaseLatency) + gen) * s.cfg.Scale)
}

var eventLine = regexp.MustCompile(`(?m)^\d+\. .*\(Location: (.*), Date: `)

type mockAssessment struct {
	RiskScore  float64 `json:"risk_score"`
	RiskLevel  string  `json:"risk_level"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
	Mitigation string  `json:"mitigation"`
}

// Complete implements gateway.Completer.
func (s *SimulatedStandard) Complete(ctx context.Context, prompt string, _ ...gateway.Option) (string, error) {
	matches := eventLine.FindAllStringSubmatch(prompt, -1)
	if err := s.sleep(ctx, s.Latency(len(matches))); err != nil {
		return "", err
	}

	out := make([]mockAssessment, len(matches))
	for i, m := range matches {
		location := strings.TrimSpace(m[1])
		score := mockScore(location, i)
		out[i] = mockAssessment{
			RiskScore:  score,
			RiskLevel:  mockLevel(score),
			Confidence: 0.75,
			Summary:    "Supply chain risk detected for " + location,
			Mitigation: "Monitor and prepare contingency plans",
		}
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// mockScore lands in [0.3, 0.8).
func mockScore(location string, i int) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(location))
	_, _ = h.Write([]byte{byte(i)})
	return 0.3 + float64(h.Sum32()%500)/1000
}

func mockLevel(score float64) string {
	switch {
	case score >= 0.7:
		return "HIGH"
	case score < 0.4:
		return "LOW"
	default:
		return "MEDIUM"
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

//Personal.AI order the ending
