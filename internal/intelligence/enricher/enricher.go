// Package enricher turns raw events into scored, geocoded, supplier-linked
// risks.  Analyze is total: gateway failures and unparsable model output
// degrade to manual-review risks instead of errors.
package enricher

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/risk"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/geocoding"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/translation"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/gateway"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/parser"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// Manual review values for events whose batch could not be assessed.
const (
	ManualReviewScore      = 50
	ManualReviewConfidence = 0.5
	ManualReviewSummary    = "AI analysis unavailable. Event flagged for manual review."
	ManualReviewMitigation = "Monitor developments and contact affected suppliers."

	defaultCategory = "supply_chain"
	unknownSource   = "Unknown"
	unknownEvent    = "Unknown Event"

	reasonDuplicate = "duplicate"
)

// Geocoder resolves event locations.  geocoding.Resolver implements it.
type Geocoder interface {
	Resolve(ctx context.Context, location string) geocoding.Coordinate
}

// Config tunes batching and filtering.
type Config struct {
	BatchSize      int
	Parallelism    int
	Cooldown       time.Duration
	MinRelevance   float64
	DropBelowScore int
	ImpactBase     float64
	// GatewayLimit caps Parallelism so batches never queue behind the
	// gateway's own limiter.  Zero leaves Parallelism as configured.
	GatewayLimit int
}

func (c *Config) applyDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 5
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 2
	}
	if c.GatewayLimit > 0 && c.Parallelism > c.GatewayLimit {
		c.Parallelism = c.GatewayLimit
	}
	if c.MinRelevance <= 0 {
		c.MinRelevance = 0.1
	}
	if c.DropBelowScore <= 0 {
		c.DropBelowScore = risk.MinActionableScore
	}
	if c.ImpactBase <= 0 {
		c.ImpactBase = DefaultImpactBase
	}
}

// Enricher runs the enrichment pipeline.
type Enricher struct {
	cfg        Config
	completer  gateway.Completer
	geo        Geocoder
	translator translation.Translator
	suppliers  supplier.Store
	logger     logging.Logger
	metrics    *prometheus.AppMetrics
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithTranslator sets the headline translator.  The default passes text
// through.
func WithTranslator(t translation.Translator) Option {
	return func(e *Enricher) {
		if t != nil {
			e.translator = t
		}
	}
}

// WithSupplierStore sets the roster Analyze matches events against.
func WithSupplierStore(s supplier.Store) Option {
	return func(e *Enricher) { e.suppliers = s }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Enricher) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics attaches application metrics.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(e *Enricher) { e.metrics = m }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) {
		if now != nil {
			e.now = now
		}
	}
}

// WithSleeper overrides the cooldown wait.
func WithSleeper(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Enricher) {
		if fn != nil {
			e.sleep = fn
		}
	}
}

// New builds an Enricher.  completer and geo are required.
func New(cfg Config, completer gateway.Completer, geo Geocoder, opts ...Option) (*Enricher, error) {
	if completer == nil {
		return nil, errors.InvalidParam("enricher requires a model gateway")
	}
	if geo == nil {
		return nil, errors.InvalidParam("enricher requires a geocoder")
	}
	cfg.applyDefaults()
	e := &Enricher{
		cfg:        cfg,
		completer:  completer,
		geo:        geo,
		translator: translation.Passthrough{},
		logger:     logging.NewNopLogger(),
		now:        time.Now,
		sleep:      sleepCtx,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("enricher")
	return e, nil
}

// Analyze enriches events against the configured supplier store.  A roster
// that fails to load only costs supplier matching.
func (e *Enricher) Analyze(ctx context.Context, events []event.Event) []risk.Risk {
	var roster []supplier.Supplier
	if e.suppliers != nil {
		loaded, err := e.suppliers.LoadSuppliers(ctx)
		if err != nil {
			e.logger.Warn("supplier roster unavailable, skipping supplier matching", logging.Err(err))
		} else {
			roster = loaded
		}
	}
	return e.AnalyzeWith(ctx, events, roster)
}

// AnalyzeWith enriches events against an explicit roster.  The result keeps
// event order and never contains a risk scored below the drop threshold.
func (e *Enricher) AnalyzeWith(ctx context.Context, events []event.Event, roster []supplier.Supplier) []risk.Risk {
	eligible := e.filter(events)
	if len(eligible) == 0 {
		e.logger.Debug("no eligible events", logging.Int("received", len(events)))
		return []risk.Risk{}
	}
	e.logger.Info("analyzing events", logging.Int("eligible", len(eligible)), logging.Int("received", len(events)))

	batches := chunk(eligible, e.cfg.BatchSize)
	results := make([][]risk.Risk, len(batches))

	for start := 0; start < len(batches); start += e.cfg.Parallelism {
		if start > 0 && e.cfg.Cooldown > 0 {
			if err := e.sleep(ctx, e.cfg.Cooldown); err != nil {
				e.logger.Warn("cooldown interrupted", logging.Err(err))
			}
		}
		end := start + e.cfg.Parallelism
		if end > len(batches) {
			end = len(batches)
		}

		var g errgroup.Group
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i] = e.analyzeBatch(ctx, batches[i], roster)
				return nil
			})
		}
		_ = g.Wait()
	}

	out := make([]risk.Risk, 0, len(eligible))
	for _, batch := range results {
		for _, r := range batch {
			if !r.Actionable(e.cfg.DropBelowScore) {
				e.logger.Debug("dropping low-impact risk",
					logging.String("headline", r.Headline), logging.Int("risk_score", r.RiskScore))
				continue
			}
			prometheus.RecordRiskEmitted(e.metrics, r.RiskLevel.String())
			out = append(out, r)
		}
	}
	return out
}

// filter drops ineligible and duplicate events, keeping first occurrences.
func (e *Enricher) filter(events []event.Event) []event.Event {
	seen := make(map[string]struct{}, len(events))
	out := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if reason := ev.Check(e.cfg.MinRelevance); reason != "" {
			prometheus.RecordEventFiltered(e.metrics, reason)
			continue
		}
		key := ev.DedupeKey()
		if _, dup := seen[key]; dup {
			prometheus.RecordEventFiltered(e.metrics, reasonDuplicate)
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ev)
	}
	return out
}

func (e *Enricher) analyzeBatch(ctx context.Context, batch []event.Event, roster []supplier.Supplier) []risk.Risk {
	start := time.Now()

	translated := make([]event.Event, len(batch))
	for i, ev := range batch {
		translated[i] = ev
		translated[i].Headline = e.translator.Translate(ctx, ev.Headline, ev.Lang)
	}

	raw, err := e.completer.Complete(ctx, BuildPrompt(translated))
	if err != nil {
		code := string(errors.GetCode(err))
		e.logger.Warn("batch analysis failed, flagging for manual review",
			logging.Int("events", len(batch)), logging.String("code", code), logging.Err(err))
		prometheus.RecordBatch(e.metrics, time.Since(start), code)
		return e.manualReview(ctx, translated, roster)
	}

	parsed, stage := parser.ParseWithStage(raw)
	if parsed == nil {
		e.logger.Warn("model output unparseable, flagging for manual review",
			logging.Int("events", len(batch)), logging.Int("output_len", len(raw)))
		prometheus.RecordError(e.metrics, "parser", string(errors.ErrCodeModelOutputUnparseable))
		prometheus.RecordBatch(e.metrics, time.Since(start), string(errors.ErrCodeModelOutputUnparseable))
		return e.manualReview(ctx, translated, roster)
	}
	if len(parsed) != len(batch) {
		e.logger.Warn("model returned a different number of assessments",
			logging.Int("expected", len(batch)), logging.Int("got", len(parsed)))
	}
	e.logger.Debug("batch parsed", logging.String("stage", string(stage)), logging.Int("objects", len(parsed)))

	assessments := parser.Align(parsed, len(batch))
	out := make([]risk.Risk, len(translated))
	for i, ev := range translated {
		out[i] = e.build(ctx, ev, assessments[i], roster)
	}
	prometheus.RecordBatch(e.metrics, time.Since(start), "")
	return out
}

func (e *Enricher) build(ctx context.Context, ev event.Event, a parser.Assessment, roster []supplier.Supplier) risk.Risk {
	r := e.base(ctx, ev, roster)
	r.RiskScore = a.StoredScore()
	r.RiskLevel = a.Level
	if a.ReportedLevel != "" && a.ReportedLevel != a.Level {
		e.logger.Debug("model level disagrees with score band",
			logging.String("headline", ev.Headline),
			logging.String("reported", a.ReportedLevel.String()),
			logging.String("banded", a.Level.String()))
	}
	r.Confidence = a.Confidence
	r.Summary = a.Summary
	r.Mitigation = a.Mitigation
	r.EstimatedDelay = EstimateDelay(a.Score, ev.Headline)
	r.FinancialImpact = estimateImpact(e.cfg.ImpactBase, a.Score, len(r.AffectedSuppliers))
	if a.Source != "" {
		r.Source = a.Source
	}
	return r
}

func (e *Enricher) manualReview(ctx context.Context, events []event.Event, roster []supplier.Supplier) []risk.Risk {
	out := make([]risk.Risk, len(events))
	for i, ev := range events {
		r := e.base(ctx, ev, roster)
		r.RiskScore = ManualReviewScore
		r.RiskLevel = risk.LevelMedium
		r.Confidence = ManualReviewConfidence
		r.Summary = ManualReviewSummary
		r.Mitigation = ManualReviewMitigation
		r.EstimatedDelay = DelayMinor
		r.FinancialImpact = estimateImpact(e.cfg.ImpactBase, float64(ManualReviewScore)/100, len(r.AffectedSuppliers))
		r.ManualReview = true
		out[i] = r
	}
	return out
}

// base fills the fields that do not depend on the model's answer.
func (e *Enricher) base(ctx context.Context, ev event.Event, roster []supplier.Supplier) risk.Risk {
	coords := e.geo.Resolve(ctx, ev.Location)
	matched := matchSuppliers(ev.Location, roster)
	names := make([]string, len(matched))
	ids := make([]string, len(matched))
	for i, m := range matched {
		names[i], ids[i] = m.name, m.id
	}

	name := ev.Headline
	if strings.TrimSpace(name) == "" {
		name = unknownEvent
	}
	return risk.Risk{
		ID:                uuid.NewString(),
		Name:              name,
		Headline:          ev.Headline,
		Location:          ev.Location,
		Date:              ev.Date,
		Lat:               coords.Lat,
		Lng:               coords.Lng,
		AffectedSuppliers: names,
		LinkedSupplierIDs: ids,
		AffectedRoutes:    Routes(ev, names),
		Source:            orDefault(ev.Source, unknownSource),
		CreatedAt:         e.now().UTC(),
		Category:          orDefault(ev.Category, defaultCategory),
		Severity:          orDefault(ev.Severity, event.SeverityMedium),
	}
}

func chunk(events []event.Event, size int) [][]event.Event {
	var out [][]event.Event
	for size < len(events) {
		events, out = events[size:], append(out, events[:size:size])
	}
	return append(out, events)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
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
