package news

import (
	"math"
	"regexp"
	"strings"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
)

// geoKeywords maps a country or hub keyword to the city used for geocoding.
// Order matters: the first keyword found in the article wins.
var geoKeywords = []struct {
	keyword  string
	location string
}{
	{"india", "Chennai, India"},
	{"netherlands", "Rotterdam, Netherlands"},
	{"china", "Shenzhen, China"},
	{"germany", "Berlin, Germany"},
	{"usa", "New York, USA"},
	{"canada", "Toronto, Canada"},
	{"japan", "Tokyo, Japan"},
	{"france", "Paris, France"},
	{"uk", "London, UK"},
	{"mexico", "Mexico City, Mexico"},
	{"brazil", "São Paulo, Brazil"},
	{"singapore", "Singapore"},
}

var (
	geoPatterns = func() []*regexp.Regexp {
		out := make([]*regexp.Regexp, len(geoKeywords))
		for i, g := range geoKeywords {
			out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(g.keyword) + `\b`)
		}
		return out
	}()
	placePattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:, [A-Z][a-z]+)?\b`)
)

// ExtractLocation guesses where an article happened.  Known country keywords
// map to a representative hub; otherwise the first capitalised phrase is
// used; otherwise the article is Global.
func ExtractLocation(title, description string) string {
	lower := strings.ToLower(title + " " + description)
	for i, p := range geoPatterns {
		if p.MatchString(lower) {
			return geoKeywords[i].location
		}
	}
	if m := placePattern.FindString(title + " " + description); m != "" {
		return m
	}
	return event.GlobalLocation
}

// ClassifySeverity buckets an article by its disruption vocabulary.
func ClassifySeverity(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "flood", "strike", "shutdown", "earthquake"):
		return event.SeverityHigh
	case containsAny(lower, "tariff", "shortage", "delay"):
		return event.SeverityMedium
	default:
		return event.SeverityLow
	}
}

var relevanceKeywords = []string{
	// shipping and trade
	"shipping", "maritime", "cargo", "freight", "container", "vessel",
	"tanker", "barge", "ship", "fleet", "port", "dock", "harbor",
	"shipyard", "seaport",

	// logistics
	"supply chain", "logistics", "warehousing", "distribution", "fulfillment",
	"forwarding", "customs", "clearance", "transit", "trucking",
	"rail freight", "air freight", "sea freight",

	// disruptions
	"congestion", "delay", "backlog", "reroute", "rerouting", "strike",
	"protest", "shortage", "disruption", "suspension", "shutdown",
	"closure", "blockade", "accident", "collision", "grounding",
	"spill", "piracy", "hijack", "sanctions", "embargo",
	"tariff", "trade war", "storm", "cyclone", "hurricane", "typhoon",

	// chokepoints
	"suez canal", "panama canal", "strait of hormuz", "south china sea",
	"red sea", "bab el-mandeb", "malacca strait", "persian gulf",
	"indian ocean route", "trans-pacific", "trans-atlantic",
}

// RelevanceScore adds 0.2 per supply-chain keyword present, capped at 1.
func RelevanceScore(text string) float64 {
	lower := strings.ToLower(text)
	score := 0.0
	for _, kw := range relevanceKeywords {
		if strings.Contains(lower, kw) {
			score += 0.2
		}
	}
	// Summing 0.2 five times drifts off 1.0; keep one decimal.
	return math.Min(math.Round(score*10)/10, 1.0)
}

var (
	offTopicWords = []string{"bitcoin", "crypto", "stock", "etf"}
	reportPhrases = []string{
		"market size", "forecast to", "cagr", "market report", "research report",
		"market analysis", "industry outlook", "projected to grow", "market share",
	}
	cryptoWords       = []string{"bitcoin", "crypto", "cryptocurrency", "ethereum", "nft"}
	supplyChainAnchor = []string{"supply chain", "logistics", "shipping"}
)

// IsOffTopic reports articles about markets rather than physical supply:
// finance in the body, syndicated market reports in the headline, and crypto
// headlines with no logistics anchor.
func IsOffTopic(title, description string) bool {
	if containsAny(strings.ToLower(title+" "+description), offTopicWords...) {
		return true
	}
	headline := strings.ToLower(title)
	if containsAny(headline, reportPhrases...) {
		return true
	}
	return containsAny(headline, cryptoWords...) && !containsAny(headline, supplyChainAnchor...)
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
