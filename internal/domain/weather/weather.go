// Package weather reads current weather conditions as supply-chain signals.
// A condition maps to an Impact; observations worse than low severity become
// events for the enrichment pipeline.
package weather

import (
	"strings"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
)

// Impact severities.  Severe is only produced by storms and is reported as
// high on the derived event.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
	SeveritySevere = "severe"
)

// CategoryWeatherImpact tags events derived from weather observations.
const CategoryWeatherImpact = "weather_impact"

// Impact is the supply-chain reading of a weather condition.
type Impact struct {
	EventType       string   `json:"event_type"`
	Severity        string   `json:"severity"`
	Impact          string   `json:"impact"`
	AffectedSectors []string `json:"affected_sectors"`
	ForecastHours   int      `json:"forecast_hours"`
}

// Observation is the current weather in one city with its impact.
type Observation struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Location    string  `json:"location"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Description string  `json:"description"`
	Impact
}

// MapConditions classifies a condition group ("Rain", "Snow", ...) and its
// free-text description.  Rules are checked in order; the first match wins.
func MapConditions(main, description string) Impact {
	m := strings.ToLower(main)
	d := strings.ToLower(description)

	switch {
	case strings.Contains(m, "rain") || strings.Contains(d, "heavy rain"):
		return Impact{
			EventType:       "Heavy Rain",
			Severity:        SeverityHigh,
			Impact:          "Flooding risk may disrupt transport and port operations",
			AffectedSectors: []string{"shipping", "textiles", "logistics"},
			ForecastHours:   24,
		}
	case strings.Contains(m, "storm") || strings.Contains(d, "cyclone"):
		return Impact{
			EventType:       "Cyclone / Storm",
			Severity:        SeveritySevere,
			Impact:          "Severe storm could halt shipping and factory production",
			AffectedSectors: []string{"shipping", "manufacturing", "energy"},
			ForecastHours:   48,
		}
	case strings.Contains(m, "snow"):
		return Impact{
			EventType:       "Snowstorm",
			Severity:        SeverityHigh,
			Impact:          "Transport and flights may be delayed",
			AffectedSectors: []string{"logistics", "aerospace", "automotive"},
			ForecastHours:   24,
		}
	case strings.Contains(m, "heat"):
		return Impact{
			EventType:       "Heatwave",
			Severity:        SeverityMedium,
			Impact:          "Energy demand surge, worker productivity reduced",
			AffectedSectors: []string{"energy", "manufacturing"},
			ForecastHours:   72,
		}
	}
	return Impact{
		EventType:       main,
		Severity:        SeverityLow,
		Impact:          "No major supply chain disruption expected",
		AffectedSectors: []string{},
		ForecastHours:   12,
	}
}

// Disruptive reports whether the observation is worth enriching.
func (o Observation) Disruptive() bool {
	return o.Severity != SeverityLow && o.Severity != ""
}

// Event converts the observation into an enrichment event.
func (o Observation) Event() event.Event {
	sev, rel := event.SeverityMedium, 0.5
	switch o.Severity {
	case SeveritySevere:
		sev, rel = event.SeverityHigh, 0.9
	case SeverityHigh:
		sev, rel = event.SeverityHigh, 0.7
	case SeverityLow:
		sev, rel = event.SeverityLow, 0.1
	}
	desc := o.Impact.Impact
	if o.Description != "" {
		desc += " (" + o.Description + ")"
	}
	return event.Event{
		ID:             o.ID,
		Headline:       o.EventType + " in " + o.Location,
		Location:       o.Location,
		Date:           o.Date,
		Description:    desc,
		Source:         "OpenWeather",
		Severity:       sev,
		RelevanceScore: event.Relevance(rel),
		Category:       CategoryWeatherImpact,
		Lang:           "en",
	}
}

//Personal.AI order the ending
