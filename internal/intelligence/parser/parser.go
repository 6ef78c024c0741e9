// Package parser recovers risk assessments from raw model output.  Model text
// frequently violates strict JSON, so Parse runs a series of increasingly
// lenient recovery stages and never returns an error: an unrecoverable input
// yields nil and callers substitute default assessments.
package parser

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Stage names the recovery step that produced a result.
type Stage string

const (
	StageDirect  Stage = "direct"
	StageCleaned Stage = "cleaned"
	StageArray   Stage = "array_extract"
	StageObjects Stage = "object_recovery"
	StageNone    Stage = "none"
)

var (
	fencePattern         = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
	inlineFencePattern   = regexp.MustCompile("```[a-zA-Z]*")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	currencyReplacer     = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", "₹", "")
	arrayPattern         = regexp.MustCompile(`\[[\s\S]*\]`)
)

// Parse recovers a list of JSON objects from raw.  A single top-level object
// becomes a one-element list.  Array elements that are not objects are kept as
// nil so positions still line up with the prompt's event order.
func Parse(raw string) []map[string]any {
	out, _ := ParseWithStage(raw)
	return out
}

// ParseWithStage is Parse that also reports which stage succeeded.
func ParseWithStage(raw string) ([]map[string]any, Stage) {
	if strings.TrimSpace(raw) == "" {
		return nil, StageNone
	}
	if v, ok := decode(raw); ok {
		return v, StageDirect
	}

	cleaned := Clean(raw)
	if v, ok := decode(cleaned); ok {
		return v, StageCleaned
	}

	if m := arrayPattern.FindString(cleaned); m != "" {
		if v, ok := decode(m); ok {
			return v, StageArray
		}
	}

	if objs := recoverObjects(cleaned); len(objs) > 0 {
		return objs, StageObjects
	}
	return nil, StageNone
}

// Clean strips Markdown code fences and currency symbols and removes trailing
// commas before a closing brace or bracket.
func Clean(raw string) string {
	s := fencePattern.ReplaceAllString(raw, "")
	s = inlineFencePattern.ReplaceAllString(s, "")
	s = currencyReplacer.Replace(s)
	s = trailingCommaPattern.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

// decode accepts a JSON array or object.  Scalars are rejected so that a stray
// number in the output does not count as a parsed assessment.
func decode(s string) ([]map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &v); err != nil {
		return nil, false
	}
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, len(t))
		for i, el := range t {
			if obj, ok := el.(map[string]any); ok {
				out[i] = obj
			}
		}
		return out, true
	case map[string]any:
		return []map[string]any{t}, true
	default:
		return nil, false
	}
}

// recoverObjects scans s for brace-balanced objects at the outermost object
// depth and keeps each one that parses on its own.
func recoverObjects(s string) []map[string]any {
	var out []map[string]any
	for _, chunk := range objectChunks(s) {
		var obj map[string]any
		if err := json.Unmarshal([]byte(chunk), &obj); err == nil {
			out = append(out, obj)
		}
	}
	return out
}

// objectChunks returns the substrings spanning each outermost {...} pair,
// ignoring braces inside string literals.
func objectChunks(s string) []string {
	var (
		chunks   []string
		depth    int
		start    = -1
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				chunks = append(chunks, s[start:i+1])
				start = -1
			}
		}
	}
	return chunks
}

//Personal.AI order the ending
