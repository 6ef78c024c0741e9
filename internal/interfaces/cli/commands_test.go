package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/config"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/risk"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/client"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

func sampleRisks() []client.Risk {
	return []client.Risk{
		{ID: "r1", Location: "Rotterdam, Netherlands", RiskScore: 85, RiskLevel: risk.LevelHigh,
			AffectedSuppliers: []string{"Rhine Parts"}, Headline: "Strike halts Rotterdam terminals"},
		{ID: "r2", Location: "Lyon, France", RiskScore: 30, RiskLevel: risk.LevelLow, Headline: "Minor delay"},
	}
}

func TestRisksList_Table(t *testing.T) {
	h := newHarness()
	h.api.On("ListRisks", mock.Anything).Return(sampleRisks(), nil)

	out, _, err := h.run(t, "risks", "list", "--min-score", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "SCORE")
	assert.Contains(t, out, "Rhine Parts")
	assert.NotContains(t, out, "Lyon")
}

func TestRisksList_JSON(t *testing.T) {
	h := newHarness()
	h.api.On("ListRisks", mock.Anything).Return(sampleRisks(), nil)

	out, _, err := h.run(t, "-o", "json", "risks", "list")
	require.NoError(t, err)
	var got []client.Risk
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 2)
}

func TestRisksList_CachedSkipsNewPass(t *testing.T) {
	h := newHarness()
	h.api.On("LatestRisks", mock.Anything).Return(sampleRisks()[:1], nil)

	out, _, err := h.run(t, "risks", "list", "--cached")
	require.NoError(t, err)
	assert.Contains(t, out, "Rhine Parts")
	h.api.AssertNotCalled(t, "ListRisks", mock.Anything)
	h.api.AssertExpectations(t)
}

func TestRisksList_APIError(t *testing.T) {
	h := newHarness()
	h.api.On("ListRisks", mock.Anything).Return(nil, &client.APIError{StatusCode: 503, Message: "down"})

	_, _, err := h.run(t, "risks", "list")
	require.Error(t, err)
	var apiErr *client.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestRisksSimulate(t *testing.T) {
	h := newHarness()
	want := client.SimulateRequest{Headline: "Typhoon closes port", Location: "Kaohsiung, Taiwan", Severity: "high"}
	h.api.On("Simulate", mock.Anything, want).Return(&client.SimulateResult{
		Success: true,
		Message: "Simulated event processed",
		Risks:   []client.Risk{{ID: "r9", Location: "Kaohsiung, Taiwan", RiskScore: 90, RiskLevel: risk.LevelHigh}},
	}, nil)

	out, _, err := h.run(t, "risks", "simulate", "--headline", "Typhoon closes port", "--location", "Kaohsiung, Taiwan", "--severity", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "OK: Simulated event processed")
	assert.Contains(t, out, "r9")
	h.api.AssertExpectations(t)
}

func TestRisksSimulate_RequiresLocation(t *testing.T) {
	h := newHarness()
	_, _, err := h.run(t, "risks", "simulate", "--headline", "Fire")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	h.api.AssertNotCalled(t, "Simulate", mock.Anything, mock.Anything)
}

func TestSuppliersList_FallbackWarns(t *testing.T) {
	h := newHarness()
	h.api.On("ListSuppliers", mock.Anything).Return(&client.SupplierList{
		Mode:      client.ModeFallback,
		Error:     "roster store unavailable",
		Suppliers: []client.Supplier{{ID: "s1", SupplierName: "Rhine Parts", Location: "Rotterdam, Netherlands"}},
	}, nil)

	out, errOut, err := h.run(t, "suppliers", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Rhine Parts")
	assert.Contains(t, errOut, "fallback mode")
}

func TestSuppliersPush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"- id: s1\n  supplier_name: Rhine Parts\n  location: Rotterdam, Netherlands\n"), 0o600))

	h := newHarness()
	h.writer.On("WriteRoster", mock.Anything, mock.MatchedBy(func(s []supplier.Supplier) bool {
		return len(s) == 1 && s[0].SupplierName == "Rhine Parts"
	})).Return(nil)
	h.writer.On("Close").Return(nil)

	out, _, err := h.run(t, "suppliers", "push", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 suppliers written")
	h.writer.AssertExpectations(t)
}

func TestSuppliersPush_RequiresFile(t *testing.T) {
	h := newHarness()
	_, _, err := h.run(t, "suppliers", "push")
	require.Error(t, err)
	h.writer.AssertNotCalled(t, "WriteRoster", mock.Anything, mock.Anything)
}

func TestCacheFlush(t *testing.T) {
	tests := []struct {
		scope  string
		prefix string
	}{
		{"llm", "llm:"},
		{"geo", "geo:"},
		{"all", ""},
	}
	for _, tt := range tests {
		t.Run(tt.scope, func(t *testing.T) {
			h := newHarness()
			h.flusher.On("DeleteByPrefix", mock.Anything, tt.prefix).Return(int64(4), nil)
			h.flusher.On("Close").Return(nil)

			out, _, err := h.run(t, "cache", "flush", "--scope", tt.scope)
			require.NoError(t, err)
			assert.Contains(t, out, "4 "+tt.scope+" cache entries deleted")
			h.flusher.AssertExpectations(t)
		})
	}
}

func TestCacheFlush_UnknownScope(t *testing.T) {
	h := newHarness()
	_, _, err := h.run(t, "cache", "flush", "--scope", "sessions")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	h.flusher.AssertNotCalled(t, "DeleteByPrefix", mock.Anything, mock.Anything)
}

func TestCacheFlush_RedisDisabled(t *testing.T) {
	_, err := openCacheFlusher(context.Background(), &config.Config{}, logging.NewNopLogger())
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestBenchmark(t *testing.T) {
	h := newHarness()
	report := &client.BenchmarkReport{
		EventsTested: 3,
		Production:   client.BenchmarkSide{Provider: "cerebras", Model: "llama3.1-8b", TotalTimeMs: 300, ResultCount: 3},
		Standard:     client.BenchmarkSide{Provider: "openai", Model: "gpt-4o-mini", TotalTimeMs: 2400, ResultCount: 3},
	}
	report.Speed.Winner = "production"
	report.Speed.Speedup = 8
	h.api.On("Benchmark", mock.Anything, client.BenchmarkRequest{SampleSize: 3}).Return(report, nil)

	out, _, err := h.run(t, "benchmark", "--sample-size", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "llama3.1-8b")
	assert.Contains(t, out, "speed: production (8.00x)")
}

func TestMetrics(t *testing.T) {
	h := newHarness()
	h.api.On("GatewayMetrics", mock.Anything).Return(&client.GatewayMetrics{Provider: "cerebras", ConcurrencyLimit: 3}, nil)

	out, _, err := h.run(t, "metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "concurrency_limit")
	assert.Contains(t, out, "cerebras")
}

func TestMigrate(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		h := newHarness()
		h.migrator.On("Up").Return(nil)
		h.migrator.On("Status").Return(uint(1), false, nil)

		out, _, err := h.run(t, "-o", "json", "migrate", "up")
		require.NoError(t, err)
		assert.Contains(t, out, "OK: migrations applied")
		assert.Contains(t, out, `"version": 1`)
	})

	t.Run("down", func(t *testing.T) {
		h := newHarness()
		h.migrator.On("Down", 2).Return(nil)
		h.migrator.On("Status").Return(uint(0), false, nil)

		_, _, err := h.run(t, "migrate", "down", "--steps", "2")
		require.NoError(t, err)
		h.migrator.AssertExpectations(t)
	})

	t.Run("down rejects zero steps", func(t *testing.T) {
		h := newHarness()
		_, _, err := h.run(t, "migrate", "down", "--steps", "0")
		require.Error(t, err)
		h.migrator.AssertNotCalled(t, "Down", mock.Anything)
	})

	t.Run("status", func(t *testing.T) {
		h := newHarness()
		h.migrator.On("Status").Return(uint(3), true, nil)

		out, _, err := h.run(t, "migrate", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "VERSION")
		assert.Contains(t, out, "true")
	})
}

//Personal.AI order the ending
