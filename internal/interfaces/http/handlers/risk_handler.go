package handlers

import (
	"net/http"
	"strconv"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/application/riskradar"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
)

// GET /api/v1/suppliers answers with a bare supplier array.  The overlay mode
// and, in fallback mode, the store error travel in these headers.
const (
	SupplierModeHeader  = "X-Supplier-Mode"
	SupplierErrorHeader = "X-Supplier-Error"
)

// RiskHandler serves the risk radar API.
type RiskHandler struct {
	svc    riskradar.Service
	logger logging.Logger
}

// NewRiskHandler creates a RiskHandler.
func NewRiskHandler(svc riskradar.Service, logger logging.Logger) *RiskHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RiskHandler{svc: svc, logger: logger.Named("http")}
}

// ListRisks handles GET /api/v1/risks.  With ?cached=true it returns the
// last analyzed batch instead of running a new pass.
func (h *RiskHandler) ListRisks(w http.ResponseWriter, r *http.Request) {
	if cached, _ := strconv.ParseBool(r.URL.Query().Get("cached")); cached {
		writeJSON(w, http.StatusOK, h.svc.LatestRisks())
		return
	}
	risks, err := h.svc.Risks(r.Context())
	if err != nil {
		h.logger.Error("risk analysis failed", logging.Err(err))
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, risks)
}

// ListSuppliers handles GET /api/v1/suppliers.
func (h *RiskHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Suppliers(r.Context())
	if err != nil {
		h.logger.Error("supplier overlay failed", logging.Err(err))
		writeAppError(w, err)
		return
	}
	w.Header().Set(SupplierModeHeader, view.Mode)
	if view.Error != "" {
		w.Header().Set(SupplierErrorHeader, view.Error)
	}
	suppliers := view.Suppliers
	if suppliers == nil {
		suppliers = []supplier.Supplier{}
	}
	writeJSON(w, http.StatusOK, suppliers)
}

// Simulate handles POST /api/v1/simulate.
func (h *RiskHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req event.SimulateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	res, err := h.svc.Simulate(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Benchmark handles POST /api/v1/benchmark.
func (h *RiskHandler) Benchmark(w http.ResponseWriter, r *http.Request) {
	var in riskradar.BenchmarkInput
	if err := decodeJSON(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	report, err := h.svc.Benchmark(r.Context(), &in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ListEvents handles GET /api/v1/news: the raw event feed before enrichment.
func (h *RiskHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Events(r.Context()))
}

// ListWeather handles GET /api/v1/weather.
func (h *RiskHandler) ListWeather(w http.ResponseWriter, r *http.Request) {
	obs, err := h.svc.Weather(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, obs)
}

// GatewayMetrics handles GET /api/v1/metrics/gateway.
func (h *RiskHandler) GatewayMetrics(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.GatewayMetrics(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

//Personal.AI order the ending
