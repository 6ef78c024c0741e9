package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/risk"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// Kind tags how an Assessment was obtained.
type Kind int

const (
	// KindValid comes from a model object that passed validation.
	KindValid Kind = iota
	// KindDefault was substituted because the object was missing or invalid.
	KindDefault
)

func (k Kind) String() string {
	if k == KindValid {
		return "valid"
	}
	return "default"
}

// Defaults for fields a valid assessment leaves out.
const (
	DefaultConfidence = 0.7
	DefaultSummary    = "Supply chain event detected."
	DefaultMitigation = "Monitor situation and prepare contingency plans."

	incompleteScore      = 0.5
	incompleteConfidence = 0.5
	incompleteSummary    = "Event detected but AI analysis incomplete."
	incompleteMitigation = "Manual review recommended."
)

// Assessment is a model assessment coerced into strict types.  Score is
// normalised to the 0..1 scale and Level is always the band of Score.
// ReportedLevel is what the model claimed, empty when it claimed nothing
// recognisable.
type Assessment struct {
	Kind          Kind
	Score         float64
	Level         risk.Level
	ReportedLevel risk.Level
	Confidence    float64
	Summary       string
	Mitigation    string
	Source        string
}

// StoredScore is the integer score a Risk built from a carries.
func (a Assessment) StoredScore() int { return risk.StoredScore(a.Score) }

// IncompleteAssessment is used for events the model did not answer for.
func IncompleteAssessment() Assessment {
	return Assessment{
		Kind:       KindDefault,
		Score:      incompleteScore,
		Level:      risk.LevelMedium,
		Confidence: incompleteConfidence,
		Summary:    incompleteSummary,
		Mitigation: incompleteMitigation,
	}
}

const assessmentSchemaURL = "mem://riskradar/assessment.json"

const assessmentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["risk_score"],
  "properties": {
    "risk_score": {"type": ["number", "string"]},
    "risk_level": {"type": ["string", "null"]},
    "confidence": {"type": ["number", "string", "null"]},
    "summary":    {"type": ["string", "null"]},
    "mitigation": {"type": ["string", "null"]},
    "source":     {"type": ["string", "null"]}
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(assessmentSchemaURL, strings.NewReader(assessmentSchema)); err != nil {
		panic(fmt.Sprintf("parser: add assessment schema: %v", err))
	}
	s, err := c.Compile(assessmentSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("parser: compile assessment schema: %v", err))
	}
	return s
}

// Validate checks obj against the assessment schema and requires a numeric
// risk_score.  Failures carry ErrCodeModelOutputUnparseable.
func Validate(obj map[string]any) error {
	if obj == nil {
		return errors.New(errors.ErrCodeModelOutputUnparseable, "assessment missing")
	}
	if err := compiledSchema.Validate(obj); err != nil {
		return errors.Wrap(err, errors.ErrCodeModelOutputUnparseable, "assessment failed schema validation")
	}
	if _, ok := toFloat(obj["risk_score"]); !ok {
		return errors.New(errors.ErrCodeModelOutputUnparseable, "risk_score is not numeric")
	}
	return nil
}

// Coerce turns one parsed object into an Assessment.  Objects that fail
// Validate become IncompleteAssessment.
func Coerce(obj map[string]any) Assessment {
	if Validate(obj) != nil {
		return IncompleteAssessment()
	}
	raw, _ := toFloat(obj["risk_score"])
	score := risk.NormalizeScore(raw)

	a := Assessment{
		Kind:       KindValid,
		Score:      score,
		Level:      risk.BandLevel(score),
		Confidence: DefaultConfidence,
		Summary:    stringField(obj, "summary"),
		Mitigation: stringField(obj, "mitigation"),
		Source:     stringField(obj, "source"),
	}
	if lvl, ok := risk.ParseAssessedLevel(stringField(obj, "risk_level")); ok {
		a.ReportedLevel = lvl
	}
	if c, ok := toFloat(obj["confidence"]); ok {
		a.Confidence = clampUnit(risk.NormalizeScore(c))
	}
	if a.Summary == "" {
		a.Summary = DefaultSummary
	}
	if a.Mitigation == "" {
		a.Mitigation = DefaultMitigation
	}
	return a
}

// Align returns exactly n assessments, position i taken from parsed[i] when
// present.  Missing positions get IncompleteAssessment.
func Align(parsed []map[string]any, n int) []Assessment {
	out := make([]Assessment, n)
	for i := range out {
		if i < len(parsed) {
			out[i] = Coerce(parsed[i])
		} else {
			out[i] = IncompleteAssessment()
		}
	}
	return out
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

// toFloat accepts JSON numbers and numeric strings such as "0.85" or "85%".
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(t), "%")
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

//Personal.AI order the ending
