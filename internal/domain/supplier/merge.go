package supplier

import (
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/risk"
)

// Merge overlays risks onto suppliers.  It is pure and total: the inputs are
// not modified and the same inputs always produce the same output.
//
// A risk is a candidate for a supplier when their city tokens are equal and
// non-empty, or when the risk lists the supplier by name.  The candidate with
// the highest score is the top risk; on ties the first one wins.
func Merge(suppliers []Supplier, risks []risk.Risk) []Supplier {
	out := make([]Supplier, 0, len(suppliers))
	for _, base := range suppliers {
		s := base.withDefaults()
		city := CityToken(s.Location)

		var top *risk.Risk
		ids := []string{}
		active := []ActiveRisk{}
		for i := range risks {
			r := &risks[i]
			sameCity := city != "" && CityToken(r.Location) == city
			if !sameCity && !r.AffectsSupplier(s.SupplierName) {
				continue
			}
			ids = append(ids, r.ID)
			active = append(active, ActiveRisk{
				ID:              r.ID,
				Name:            r.Headline,
				Summary:         r.Summary,
				Mitigation:      r.Mitigation,
				EstimatedDelay:  r.EstimatedDelay,
				FinancialImpact: r.FinancialImpact,
			})
			if top == nil || r.RiskScore > top.RiskScore {
				top = r
			}
		}

		s.ActiveRiskIDs = ids
		s.ActiveRisks = active
		if top != nil {
			s.CurrentRiskLevel = top.RiskLevel
			if s.CurrentRiskLevel == "" {
				s.CurrentRiskLevel = risk.BandLevel(risk.NormalizeScore(float64(top.RiskScore)))
			}
			s.RiskScore = risk.StoredScore(risk.NormalizeScore(float64(top.RiskScore)))
			if s.Criticality == "" {
				s.Criticality = CriticalityHigh
			}
		} else {
			s.CurrentRiskLevel = risk.LevelLow
			s.RiskScore = 0
			if s.Criticality == "" {
				s.Criticality = CriticalityMedium
			}
		}
		out = append(out, s)
	}
	return out
}

// Fallback returns the base roster with an UNKNOWN overlay.  It is served when
// risks could not be computed so callers can tell it apart from a live merge.
func Fallback(suppliers []Supplier) []Supplier {
	out := make([]Supplier, 0, len(suppliers))
	for _, base := range suppliers {
		s := base.withDefaults()
		s.CurrentRiskLevel = risk.LevelUnknown
		s.RiskScore = 0
		s.ActiveRiskIDs = []string{}
		s.ActiveRisks = []ActiveRisk{}
		if s.Criticality == "" {
			s.Criticality = CriticalityMedium
		}
		out = append(out, s)
	}
	return out
}

// MatchNames returns the names of suppliers whose location matches location,
// in roster order.
func MatchNames(location string, suppliers []Supplier) []string {
	names := []string{}
	for _, s := range suppliers {
		if LocationMatches(location, s.Location) {
			names = append(names, s.SupplierName)
		}
	}
	return names
}

//Personal.AI order the ending
