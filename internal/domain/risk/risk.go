// Package risk defines the enriched Risk record and the score normalisation
// and banding rules that every consumer of model assessments applies.
package risk

import (
	"math"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Levels
// ─────────────────────────────────────────────────────────────────────────────

// Level is the qualitative severity attached to a Risk.
type Level string

const (
	LevelHigh    Level = "HIGH"
	LevelMedium  Level = "MEDIUM"
	LevelLow     Level = "LOW"
	LevelVeryLow Level = "VERY LOW"
	// LevelUnknown marks suppliers served without a risk overlay.
	LevelUnknown Level = "UNKNOWN"
)

const (
	thresholdHigh   = 0.7
	thresholdMedium = 0.4
	thresholdLow    = 0.2
)

// String implements fmt.Stringer.
func (l Level) String() string { return string(l) }

// ParseAssessedLevel accepts the levels a model is allowed to report.  The
// stored level always comes from BandLevel; a reported level is only compared
// against it.
func ParseAssessedLevel(s string) (Level, bool) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelHigh:
		return LevelHigh, true
	case LevelMedium:
		return LevelMedium, true
	case LevelLow:
		return LevelLow, true
	default:
		return "", false
	}
}

// BandLevel maps a normalised score in [0,1] onto a Level.  Boundaries are
// inclusive on the lower edge.
func BandLevel(score float64) Level {
	switch {
	case score >= thresholdHigh:
		return LevelHigh
	case score >= thresholdMedium:
		return LevelMedium
	case score >= thresholdLow:
		return LevelLow
	default:
		return LevelVeryLow
	}
}

// NormalizeScore converts a raw model score to the 0..1 scale.  Models
// occasionally answer on a 0..100 scale, so anything above 1 is divided by 100.
// NaN and infinities collapse to 0.
func NormalizeScore(raw float64) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0
	}
	if raw > 1 {
		return raw / 100
	}
	return raw
}

// StoredScore is the integer persisted on a Risk: round(normalized*100)
// clamped to [0,100].
func StoredScore(normalized float64) int {
	if math.IsNaN(normalized) {
		return 0
	}
	v := math.Round(normalized * 100)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// ─────────────────────────────────────────────────────────────────────────────
// Risk record
// ─────────────────────────────────────────────────────────────────────────────

// Risk is one enriched assessment derived from a single event.  Risks are
// recomputed on every enrichment pass and never persisted.
type Risk struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Headline          string    `json:"headline"`
	Location          string    `json:"location"`
	Date              string    `json:"date"`
	RiskScore         int       `json:"risk_score"`
	RiskLevel         Level     `json:"risk_level"`
	Confidence        float64   `json:"confidence"`
	Summary           string    `json:"summary"`
	Mitigation        string    `json:"mitigation"`
	Lat               float64   `json:"lat"`
	Lng               float64   `json:"lng"`
	AffectedSuppliers []string  `json:"affected_suppliers"`
	LinkedSupplierIDs []string  `json:"linked_supplier_ids"`
	AffectedRoutes    []string  `json:"affected_routes"`
	EstimatedDelay    string    `json:"estimated_delay"`
	FinancialImpact   string    `json:"financial_impact"`
	Source            string    `json:"source"`
	CreatedAt         time.Time `json:"created_at"`
	Category          string    `json:"category"`
	Severity          string    `json:"severity"`
	ManualReview      bool      `json:"manual_review,omitempty"`
}

// MinActionableScore is the stored score below which a Risk carries no
// actionable signal and is dropped.
const MinActionableScore = 20

// Actionable reports whether r clears threshold.
func (r Risk) Actionable(threshold int) bool {
	return r.RiskScore >= threshold
}

// AffectsSupplier reports whether name is listed in AffectedSuppliers.
func (r Risk) AffectsSupplier(name string) bool {
	for _, s := range r.AffectedSuppliers {
		if s == name {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
