// Package event defines the raw Event signal consumed by the enrichment
// pipeline, the Source contract that produces events, and the in-memory store
// holding simulated events.
package event

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// GlobalLocation is too coarse to geocode or match against suppliers.
const GlobalLocation = "Global"

// Severity hints attached by sources.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Event is an observed occurrence that may indicate supply-chain disruption.
// Events are immutable once produced.
type Event struct {
	ID             string   `json:"id"`
	Headline       string   `json:"headline"`
	Location       string   `json:"location"`
	Date           string   `json:"date"`
	Description    string   `json:"description,omitempty"`
	Source         string   `json:"source,omitempty"`
	URL            string   `json:"url,omitempty"`
	Severity       string   `json:"severity,omitempty"`
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
	Category       string   `json:"category,omitempty"`
	Lang           string   `json:"lang,omitempty"`
}

// Relevance returns the relevance score and whether one was supplied.
func (e Event) Relevance() (float64, bool) {
	if e.RelevanceScore == nil {
		return 0, false
	}
	return *e.RelevanceScore, true
}

// Relevance is a helper for building events with a relevance score.
func Relevance(v float64) *float64 { return &v }

// IsGlobal reports whether the event location is the coarse "Global" marker.
func (e Event) IsGlobal() bool {
	return strings.EqualFold(strings.TrimSpace(e.Location), GlobalLocation)
}

// Ineligibility reasons reported by Check.
const (
	ReasonMissingHeadline = "missing_headline"
	ReasonMissingLocation = "missing_location"
	ReasonGlobal          = "global_location"
	ReasonLowRelevance    = "low_relevance"
)

// Check returns "" when e may be enriched, or the reason it may not.  A
// relevance score is only enforced when the source supplied one.
func (e Event) Check(minRelevance float64) string {
	switch {
	case strings.TrimSpace(e.Headline) == "":
		return ReasonMissingHeadline
	case strings.TrimSpace(e.Location) == "":
		return ReasonMissingLocation
	case e.IsGlobal():
		return ReasonGlobal
	}
	if rel, ok := e.Relevance(); ok && rel < minRelevance {
		return ReasonLowRelevance
	}
	return ""
}

// DedupeKey identifies events that describe the same occurrence.
func (e Event) DedupeKey() string {
	return strings.ToLower(strings.TrimSpace(e.Headline)) + "|" + strings.ToLower(strings.TrimSpace(e.Location))
}

// Source produces the events for one request cycle.  Implementations degrade
// to a placeholder event instead of failing.
type Source interface {
	FetchEvents(ctx context.Context) []Event
}

// SimulateRequest is the input for a user-injected event.
type SimulateRequest struct {
	Headline string `json:"headline"`
	Location string `json:"location"`
	Severity string `json:"severity,omitempty"`
	Category string `json:"category,omitempty"`
}

// Validate requires headline and location.
func (r SimulateRequest) Validate() error {
	if strings.TrimSpace(r.Headline) == "" || strings.TrimSpace(r.Location) == "" {
		return errors.InvalidParam("headline and location are required")
	}
	return nil
}

// NewSimulated synthesizes an Event from req with full relevance.
func NewSimulated(req SimulateRequest, now time.Time) Event {
	severity := strings.ToLower(strings.TrimSpace(req.Severity))
	if severity == "" {
		severity = SeverityMedium
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "simulated"
	}
	headline := strings.TrimSpace(req.Headline)
	return Event{
		ID:             uuid.NewString(),
		Headline:       headline,
		Location:       strings.TrimSpace(req.Location),
		Date:           now.UTC().Format(time.RFC3339),
		Description:    headline,
		Source:         "Simulated",
		Severity:       severity,
		RelevanceScore: Relevance(1.0),
		Category:       category,
		Lang:           "en",
	}
}

//Personal.AI order the ending
