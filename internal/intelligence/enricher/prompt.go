package enricher

import (
	"fmt"
	"strings"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
)

// BuildPrompt renders the batch prompt.  Position i of the expected answer
// array corresponds to events[i].
func BuildPrompt(events []event.Event) string {
	var sb strings.Builder
	sb.WriteString("You are an AI supply chain risk analyzer. Analyze these events and return ONLY a valid JSON array.\n\n")
	sb.WriteString("Events:\n")
	for i, e := range events {
		severity := e.Severity
		if severity == "" {
			severity = "unknown"
		}
		fmt.Fprintf(&sb, "%d. %q (Location: %s, Date: %s, Severity: %s)\n", i+1, e.Headline, e.Location, e.Date, severity)
	}
	sb.WriteString(`
Return JSON array with this EXACT structure (no additional text):
[
  {
    "risk_score": 0.75,
    "risk_level": "HIGH",
    "confidence": 0.85,
    "summary": "Brief impact explanation (max 100 chars)",
    "mitigation": "Specific action recommendation",
    "source": "news source name"
  }
]

Rules:
- risk_score: 0.0-1.0 (0.0-0.19=VERY LOW, 0.2-0.39=LOW, 0.4-0.69=MEDIUM, 0.7-1.0=HIGH)
- risk_level: Must be "LOW", "MEDIUM", or "HIGH"
- confidence: 0.0-1.0 (how certain you are)
`)
	fmt.Fprintf(&sb, "- Return array with %d objects\n", len(events))
	sb.WriteString("- NO text outside JSON")
	return sb.String()
}

//Personal.AI order the ending
