package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/application/riskradar"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/risk"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/gateway"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/interfaces/http/handlers"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/interfaces/http/middleware"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

type stubSource []event.Event

func (s stubSource) FetchEvents(context.Context) []event.Event { return s }

type stubStore struct {
	suppliers []supplier.Supplier
	err       error
}

func (s stubStore) LoadSuppliers(context.Context) ([]supplier.Supplier, error) {
	return s.suppliers, s.err
}

// echoAnalyzer turns every event into a HIGH risk at the event location.
type echoAnalyzer struct{}

func (echoAnalyzer) AnalyzeWith(_ context.Context, events []event.Event, roster []supplier.Supplier) []risk.Risk {
	out := []risk.Risk{}
	for _, e := range events {
		out = append(out, risk.Risk{
			ID:                "risk-" + e.ID,
			Headline:          e.Headline,
			Location:          e.Location,
			RiskScore:         80,
			RiskLevel:         risk.LevelHigh,
			AffectedSuppliers: supplier.MatchNames(e.Location, roster),
		})
	}
	return out
}

type stubGateway struct{}

func (stubGateway) Snapshot() gateway.Snapshot {
	return gateway.Snapshot{Provider: "cerebras", ConcurrencyLimit: 3}
}

func newTestRouter(t *testing.T, store supplier.Store, rl *middleware.RateLimitConfig) http.Handler {
	t.Helper()
	svc, err := riskradar.NewService(riskradar.Deps{
		Events: stubSource{{
			ID:             "e1",
			Headline:       "Strike halts Rotterdam terminals",
			Location:       "Rotterdam, Netherlands",
			RelevanceScore: event.Relevance(0.8),
		}},
		Analyzer:  echoAnalyzer{},
		Suppliers: store,
		Gateway:   stubGateway{},
	})
	require.NoError(t, err)

	logCfg := middleware.DefaultLoggingConfig()
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = []string{"*"}
	return NewRouter(RouterConfig{
		RiskHandler:      handlers.NewRiskHandler(svc, nil),
		HealthHandler:    handlers.NewHealthHandler("test"),
		CORS:             &corsCfg,
		Logging:          &logCfg,
		RateLimit:        rl,
		Metrics:          prometheus.NewAppMetrics(prometheus.NewNoopCollector()),
		MetricsCollector: prometheus.NewNoopCollector(),
	})
}

func rotterdamRoster() []supplier.Supplier {
	return []supplier.Supplier{{ID: "supplier_rhine_parts", SupplierName: "Rhine Parts", Location: "Rotterdam, Netherlands"}}
}

func TestRouter_Probes(t *testing.T) {
	r := newTestRouter(t, stubStore{suppliers: rotterdamRoster()}, nil)
	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_Risks(t *testing.T) {
	r := newTestRouter(t, stubStore{suppliers: rotterdamRoster()}, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/risks", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var risks []risk.Risk
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &risks))
	require.Len(t, risks, 1)
	assert.Equal(t, []string{"Rhine Parts"}, risks[0].AffectedSuppliers)
}

func TestRouter_CachedRisksFollowLastPass(t *testing.T) {
	r := newTestRouter(t, stubStore{suppliers: rotterdamRoster()}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/risks?cached=true", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/risks", nil))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/risks?cached=true", nil))
	var risks []risk.Risk
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &risks))
	require.Len(t, risks, 1)
	assert.Equal(t, "risk-e1", risks[0].ID)
}

func TestRouter_RawFeeds(t *testing.T) {
	r := newTestRouter(t, stubStore{suppliers: rotterdamRoster()}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/news", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var events []event.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Strike halts Rotterdam terminals", events[0].Headline)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_SuppliersModes(t *testing.T) {
	t.Run("live", func(t *testing.T) {
		r := newTestRouter(t, stubStore{suppliers: rotterdamRoster()}, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/suppliers", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, riskradar.ModeLive, w.Header().Get(handlers.SupplierModeHeader))
		assert.Empty(t, w.Header().Get(handlers.SupplierErrorHeader))
		var got []supplier.Supplier
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, risk.LevelHigh, got[0].CurrentRiskLevel)
		assert.Equal(t, []string{"risk-e1"}, got[0].ActiveRiskIDs)
	})

	t.Run("fallback", func(t *testing.T) {
		r := newTestRouter(t, stubStore{err: errors.New(errors.ErrCodeSupplierStore, "down")}, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/suppliers", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, riskradar.ModeFallback, w.Header().Get(handlers.SupplierModeHeader))
		assert.Contains(t, w.Header().Get(handlers.SupplierErrorHeader), "down")
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestRouter_SimulateAndMetrics(t *testing.T) {
	r := newTestRouter(t, stubStore{suppliers: rotterdamRoster()}, nil)

	w := httptest.NewRecorder()
	body := `{"headline":"Typhoon closes port","location":"Kaohsiung, Taiwan"}`
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
	var sim riskradar.SimulateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sim))
	assert.True(t, sim.Success)
	assert.Equal(t, "simulated", sim.Event.Category)
	require.Len(t, sim.Risks, 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/metrics/gateway", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"concurrency_limit":3`)
}

func TestRouter_BenchmarkUnconfigured(t *testing.T) {
	r := newTestRouter(t, stubStore{suppliers: rotterdamRoster()}, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/benchmark", http.NoBody))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_RateLimitScopedToAPI(t *testing.T) {
	rl := middleware.DefaultRateLimitConfig()
	rl.RequestsPerSecond = 0.001
	rl.Burst = 1
	r := newTestRouter(t, stubStore{suppliers: rotterdamRoster()}, &rl)

	call := func(path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}
	assert.Equal(t, http.StatusOK, call("/api/v1/metrics/gateway"))
	assert.Equal(t, http.StatusTooManyRequests, call("/api/v1/metrics/gateway"))
	assert.Equal(t, http.StatusOK, call("/healthz"))
}

func TestRouter_NilHandlers(t *testing.T) {
	r := NewRouter(RouterConfig{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/risks", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r := newTestRouter(t, stubStore{suppliers: rotterdamRoster()}, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/simulate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

//Personal.AI order the ending
