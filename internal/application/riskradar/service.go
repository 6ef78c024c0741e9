// Package riskradar is the application service behind the HTTP API, the CLI
// and the Kafka worker.  It snapshots events, runs them through the enricher
// and overlays the resulting risks on the supplier roster.
package riskradar

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/risk"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/weather"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/benchmark"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/gateway"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// Supplier view modes.
const (
	ModeLive     = "live"
	ModeFallback = "fallback"
)

const simulatedMessage = "Simulated event injected and analyzed"

// ErrNoBenchmarkSample is returned when no event qualifies for a benchmark run.
var ErrNoBenchmarkSample = errors.InvalidParam("No suitable events available for benchmark")

// Analyzer is the enrichment pipeline.  enricher.Enricher implements it.
type Analyzer interface {
	AnalyzeWith(ctx context.Context, events []event.Event, roster []supplier.Supplier) []risk.Risk
}

// Comparer runs the inference benchmark.  benchmark.Harness implements it.
type Comparer interface {
	Compare(ctx context.Context, events []event.Event, taskType string) *benchmark.ComparisonReport
}

// GatewayStats exposes the model gateway counters.
type GatewayStats interface {
	Snapshot() gateway.Snapshot
}

// WeatherSource reports current conditions for the watched cities.
// openweather.Client implements it.
type WeatherSource interface {
	Observations(ctx context.Context) []weather.Observation
}

// Service defines the RiskRadar application operations.
type Service interface {
	Risks(ctx context.Context) ([]risk.Risk, error)
	Suppliers(ctx context.Context) (*SupplierView, error)
	Simulate(ctx context.Context, req event.SimulateRequest) (*SimulateResult, error)
	Benchmark(ctx context.Context, input *BenchmarkInput) (*benchmark.ComparisonReport, error)
	GatewayMetrics(ctx context.Context) (*gateway.Snapshot, error)
	Process(ctx context.Context, events []event.Event) ([]risk.Risk, error)
	LatestRisks() []risk.Risk
	Events(ctx context.Context) []event.Event
	Weather(ctx context.Context) ([]weather.Observation, error)
}

// SupplierView is the roster with its risk overlay.  Mode tells callers
// whether the overlay is live or a fallback without risk data.
type SupplierView struct {
	Mode      string              `json:"mode"`
	Suppliers []supplier.Supplier `json:"suppliers"`
	Error     string              `json:"error,omitempty"`
}

// SimulateResult is returned by Simulate.
type SimulateResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Event   event.Event `json:"event"`
	Risks   []risk.Risk `json:"risks"`
}

// BenchmarkInput contains the optional benchmark parameters.
type BenchmarkInput struct {
	SampleSize int    `json:"sampleSize,omitempty"`
	TaskType   string `json:"taskType,omitempty"`
}

// Deps carries the collaborators of the service.  Events, Simulated, Analyzer
// and Suppliers are required.
type Deps struct {
	Events    event.Source
	Simulated *event.SimulatedStore
	Analyzer  Analyzer
	Suppliers supplier.Store
	// FallbackSuppliers is read when Suppliers fails and no roster has been
	// loaded yet.
	FallbackSuppliers supplier.Store
	Benchmark         Comparer
	Gateway           GatewayStats
	Weather           WeatherSource
	Logger            logging.Logger
	Clock             func() time.Time
}

type serviceImpl struct {
	events    event.Source
	simulated *event.SimulatedStore
	analyzer  Analyzer
	suppliers supplier.Store
	fallback  supplier.Store
	bench     Comparer
	gw        GatewayStats
	weather   WeatherSource
	logger    logging.Logger
	now       func() time.Time

	mu       sync.RWMutex
	lastGood []supplier.Supplier
	latest   []risk.Risk
}

// NewService creates the application service.  Simulated events are merged
// into every snapshot taken from deps.Events.
func NewService(deps Deps) (Service, error) {
	if deps.Events == nil || deps.Analyzer == nil || deps.Suppliers == nil {
		return nil, errors.InvalidParam("riskradar service requires an event source, an analyzer and a supplier store")
	}
	if deps.Simulated == nil {
		deps.Simulated = event.NewSimulatedStore(0)
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &serviceImpl{
		events:    event.MultiSource{deps.Events, deps.Simulated},
		simulated: deps.Simulated,
		analyzer:  deps.Analyzer,
		suppliers: deps.Suppliers,
		fallback:  deps.FallbackSuppliers,
		bench:     deps.Benchmark,
		gw:        deps.Gateway,
		weather:   deps.Weather,
		logger:    deps.Logger.Named("riskradar"),
		now:       deps.Clock,
	}, nil
}

// Risks analyzes the current event snapshot.  A roster failure only loses
// supplier links; the risks are still returned.
func (s *serviceImpl) Risks(ctx context.Context) ([]risk.Risk, error) {
	events := s.events.FetchEvents(ctx)
	return s.Process(ctx, events)
}

// Suppliers merges fresh risks onto the roster.  When the roster cannot be
// loaded the last good roster, or else the fallback store, is served with an
// UNKNOWN overlay.
func (s *serviceImpl) Suppliers(ctx context.Context) (*SupplierView, error) {
	roster, err := s.loadRoster(ctx)
	if err != nil {
		return s.fallbackView(ctx, err), nil
	}

	events := s.events.FetchEvents(ctx)
	risks := s.analyzer.AnalyzeWith(ctx, events, roster)
	s.setLatest(risks)

	merged := supplier.Merge(roster, risks)
	s.logDistribution(merged)
	return &SupplierView{Mode: ModeLive, Suppliers: merged}, nil
}

func (s *serviceImpl) fallbackView(ctx context.Context, cause error) *SupplierView {
	s.logger.Warn("supplier store failed, serving fallback roster", logging.Err(cause))
	view := &SupplierView{Mode: ModeFallback, Error: cause.Error()}

	base := s.lastRoster()
	if base == nil && s.fallback != nil {
		loaded, err := s.fallback.LoadSuppliers(ctx)
		if err != nil {
			s.logger.Error("fallback supplier store failed", logging.Err(err))
		}
		base = loaded
	}
	view.Suppliers = supplier.Fallback(base)
	return view
}

// Simulate stores a synthetic event and analyzes it on its own.
func (s *serviceImpl) Simulate(ctx context.Context, req event.SimulateRequest) (*SimulateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ev := event.NewSimulated(req, s.now())
	s.simulated.Add(ev)

	roster, err := s.loadRoster(ctx)
	if err != nil {
		s.logger.Warn("simulating without supplier roster", logging.Err(err))
		roster = s.lastRoster()
	}
	risks := s.analyzer.AnalyzeWith(ctx, []event.Event{ev}, roster)

	s.logger.Info("simulated event analyzed",
		logging.String("event_id", ev.ID),
		logging.String("location", ev.Location),
		logging.Int("risks", len(risks)))
	return &SimulateResult{
		Success: true,
		Message: simulatedMessage,
		Event:   ev,
		Risks:   risks,
	}, nil
}

// Benchmark compares the production and standard inference paths over a
// sample of the current snapshot.
func (s *serviceImpl) Benchmark(ctx context.Context, input *BenchmarkInput) (*benchmark.ComparisonReport, error) {
	if s.bench == nil {
		return nil, errors.Unavailable("benchmark is not configured")
	}
	if input == nil {
		input = &BenchmarkInput{}
	}
	sample := benchmark.SelectSample(s.events.FetchEvents(ctx), input.SampleSize)
	if len(sample) == 0 {
		return nil, ErrNoBenchmarkSample
	}
	return s.bench.Compare(ctx, sample, input.TaskType), nil
}

// GatewayMetrics returns the model gateway counters.
func (s *serviceImpl) GatewayMetrics(_ context.Context) (*gateway.Snapshot, error) {
	if s.gw == nil {
		return nil, errors.Unavailable("model gateway is not configured")
	}
	snap := s.gw.Snapshot()
	return &snap, nil
}

// Process analyzes an externally supplied batch, such as one consumed from
// Kafka, against the roster.  The result replaces the latest risk batch.
func (s *serviceImpl) Process(ctx context.Context, events []event.Event) ([]risk.Risk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	roster, err := s.loadRoster(ctx)
	if err != nil {
		s.logger.Warn("analyzing without supplier roster", logging.Err(err))
		roster = s.lastRoster()
	}
	risks := s.analyzer.AnalyzeWith(ctx, events, roster)
	if risks == nil {
		risks = []risk.Risk{}
	}
	s.setLatest(risks)
	return risks, nil
}

// Events returns the current raw event snapshot, simulated events included,
// without analyzing it.
func (s *serviceImpl) Events(ctx context.Context) []event.Event {
	events := s.events.FetchEvents(ctx)
	if events == nil {
		events = []event.Event{}
	}
	return events
}

// Weather returns current conditions for every watched city that answered.
func (s *serviceImpl) Weather(ctx context.Context) ([]weather.Observation, error) {
	if s.weather == nil {
		return nil, errors.Unavailable("weather source is not configured")
	}
	obs := s.weather.Observations(ctx)
	if obs == nil {
		obs = []weather.Observation{}
	}
	return obs, nil
}

// LatestRisks returns a copy of the most recent batch.  Only one batch is kept.
func (s *serviceImpl) LatestRisks() []risk.Risk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]risk.Risk, len(s.latest))
	copy(out, s.latest)
	return out
}

func (s *serviceImpl) loadRoster(ctx context.Context) ([]supplier.Supplier, error) {
	roster, err := s.suppliers.LoadSuppliers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSupplierStore, "failed to load supplier roster")
	}
	s.mu.Lock()
	s.lastGood = roster
	s.mu.Unlock()
	return roster, nil
}

func (s *serviceImpl) lastRoster() []supplier.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastGood
}

func (s *serviceImpl) setLatest(risks []risk.Risk) {
	s.mu.Lock()
	s.latest = risks
	s.mu.Unlock()
}

func (s *serviceImpl) logDistribution(suppliers []supplier.Supplier) {
	counts := map[risk.Level]int{}
	for _, sp := range suppliers {
		counts[sp.CurrentRiskLevel]++
	}
	s.logger.Info("supplier risk overlay",
		logging.Int("suppliers", len(suppliers)),
		logging.Int("high", counts[risk.LevelHigh]),
		logging.Int("medium", counts[risk.LevelMedium]),
		logging.Int("low", counts[risk.LevelLow]))
}

//Personal.AI order the ending
