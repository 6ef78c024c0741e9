package enricher

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
)

// DefaultImpactBase is the dollar exposure of a score-1.0 event hitting one
// supplier.
const DefaultImpactBase = 200000.0

// Delay buckets.
const (
	DelayCritical = "7-14 days"
	DelayMajor    = "3-7 days"
	DelayMinor    = "1-3 days"
	DelayNone     = "< 1 day"
)

// RouteDestinations are the transhipment hubs affected routes lead to.
var RouteDestinations = []string{"Singapore", "Dubai", "Los Angeles", "Hamburg"}

// EstimateDelay buckets the expected disruption by normalised score and
// headline vocabulary, whichever is more severe.
func EstimateDelay(score float64, headline string) string {
	lower := strings.ToLower(headline)
	switch {
	case score >= 0.8 || containsAny(lower, "shutdown", "shut down", "shuts down", "closed"):
		return DelayCritical
	case score >= 0.6 || containsAny(lower, "flood", "strike"):
		return DelayMajor
	case score >= 0.4 || containsAny(lower, "delay", "shortage"):
		return DelayMinor
	default:
		return DelayNone
	}
}

// EstimateFinancialImpact returns a "$minK - $maxK" band: half to one and a
// half times score × DefaultImpactBase, per matched supplier (at least one).
func EstimateFinancialImpact(score float64, matched []string) string {
	return estimateImpact(DefaultImpactBase, score, len(matched))
}

func estimateImpact(base, score float64, suppliers int) string {
	mult := float64(suppliers)
	if mult < 1 {
		mult = 1
	}
	exposure := score * base
	lo := math.Round(exposure * 0.5 * mult)
	hi := math.Round(exposure * 1.5 * mult)
	// %.0f rounds half to even; thousands round half away from zero.
	return fmt.Sprintf("$%.0fK - $%.0fK", math.Round(lo/1000), math.Round(hi/1000))
}

// matchedSupplier is a roster entry touched by an event.
type matchedSupplier struct {
	name string
	id   string
}

// MatchSuppliers returns the names of suppliers whose location overlaps the
// event location, in roster order.
func MatchSuppliers(location string, suppliers []supplier.Supplier) []string {
	return supplier.MatchNames(location, suppliers)
}

func matchSuppliers(location string, suppliers []supplier.Supplier) []matchedSupplier {
	out := []matchedSupplier{}
	for _, s := range suppliers {
		if supplier.LocationMatches(location, s.Location) {
			out = append(out, matchedSupplier{name: s.SupplierName, id: s.StableID()})
		}
	}
	return out
}

// Routes lists the shipping lanes out of the event's city.  Only events that
// touch a supplier have routes.  The lane set is a pure function of the
// event's headline, location and date.
func Routes(e event.Event, matched []string) []string {
	routes := []string{}
	if len(matched) == 0 {
		return routes
	}
	origin := strings.TrimSpace(strings.SplitN(e.Location, ",", 2)[0])
	if origin == "" {
		return routes
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(e.Headline + "\x00" + e.Location + "\x00" + e.Date))
	bits := h.Sum64()
	for i, dest := range RouteDestinations {
		if bits&(1<<uint(i)) != 0 && !strings.EqualFold(dest, origin) {
			routes = append(routes, origin+" → "+dest)
		}
	}
	if len(routes) == 0 {
		dest := RouteDestinations[0]
		if strings.EqualFold(dest, origin) {
			dest = RouteDestinations[1]
		}
		routes = append(routes, origin+" → "+dest)
	}
	return routes
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
