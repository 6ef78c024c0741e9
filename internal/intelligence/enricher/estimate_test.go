package enricher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
)

func TestEstimateDelay(t *testing.T) {
	tests := []struct {
		score    float64
		headline string
		want     string
	}{
		{0.1, "Port of Chennai shuts down due to cyclone", "7-14 days"},
		{0.1, "Plant shutdown", "7-14 days"},
		{0.1, "Terminal closed for repairs", "7-14 days"},
		{0.8, "Quiet day", "7-14 days"},
		{0.1, "Flood warning", "3-7 days"},
		{0.6, "Quiet day", "3-7 days"},
		{0.1, "Chip shortage", "1-3 days"},
		{0.4, "Quiet day", "1-3 days"},
		{0.39, "Quiet day", "< 1 day"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EstimateDelay(tt.score, tt.headline), "%v %q", tt.score, tt.headline)
	}
}

func TestEstimateFinancialImpact(t *testing.T) {
	assert.Equal(t, "$85K - $255K", EstimateFinancialImpact(0.85, []string{"a"}))
	assert.Equal(t, "$50K - $150K", EstimateFinancialImpact(0.5, nil))
	assert.Equal(t, "$100K - $300K", EstimateFinancialImpact(0.5, []string{"a", "b"}))
	assert.Equal(t, "$0K - $0K", EstimateFinancialImpact(0, nil))
	// 42.5K and 127.5K round up.
	assert.Equal(t, "$43K - $128K", EstimateFinancialImpact(0.425, nil))
}

func TestMatchSuppliers(t *testing.T) {
	roster := []supplier.Supplier{
		{SupplierName: "Acme Textiles", Location: "Chennai, India"},
		{SupplierName: "Chennai Ports Co", Location: "Chennai"},
		{SupplierName: "Rhine Metal", Location: "Rotterdam, Netherlands"},
		{SupplierName: "Ghost", Location: ""},
	}
	assert.Equal(t, []string{"Acme Textiles", "Chennai Ports Co"}, MatchSuppliers("Chennai, India", roster))
	assert.Equal(t, []string{"Rhine Metal"}, MatchSuppliers("rotterdam", roster))
	assert.Empty(t, MatchSuppliers("Lima, Peru", roster))
	assert.Empty(t, MatchSuppliers("", roster))
}

func TestRoutes(t *testing.T) {
	e := event.Event{Headline: "Strike", Location: "Chennai, India", Date: "2026-10-01"}

	assert.Equal(t, []string{}, Routes(e, nil))

	first := Routes(e, []string{"Acme"})
	assert.NotEmpty(t, first)
	assert.Equal(t, first, Routes(e, []string{"Acme"}))
	for _, r := range first {
		assert.True(t, strings.HasPrefix(r, "Chennai → "), r)
	}

	sg := Routes(event.Event{Headline: "x", Location: "Singapore"}, []string{"Acme"})
	for _, r := range sg {
		assert.NotEqual(t, "Singapore → Singapore", r)
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt([]event.Event{
		{Headline: "Port strike", Location: "Chennai, India", Date: "2026-10-01", Severity: "high"},
		{Headline: "Rail delay", Location: "Berlin, Germany", Date: "2026-10-02"},
	})
	assert.True(t, strings.HasPrefix(p, "You are an AI supply chain risk analyzer."))
	assert.Contains(t, p, `1. "Port strike" (Location: Chennai, India, Date: 2026-10-01, Severity: high)`)
	assert.Contains(t, p, `2. "Rail delay" (Location: Berlin, Germany, Date: 2026-10-02, Severity: unknown)`)
	assert.Contains(t, p, "- Return array with 2 objects")
	assert.True(t, strings.HasSuffix(p, "NO text outside JSON"))
}

func TestChunk(t *testing.T) {
	evs := make([]event.Event, 7)
	batches := chunk(evs, 3)
	assert.Len(t, batches, 3)
	assert.Len(t, batches[2], 1)
	assert.Len(t, chunk(evs[:6], 3), 2)
}

//Personal.AI order the ending
