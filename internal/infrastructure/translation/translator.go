// Package translation brings non-English headlines into English before they
// reach the risk prompt.
package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/gateway"
)

// SystemPrompt frames the model as a translator rather than an analyst.
const SystemPrompt = "Professional supply-chain translation assistant"

// Translator returns text in English.  It never fails: on any error the input
// comes back unchanged.
type Translator interface {
	Translate(ctx context.Context, text, lang string) string
}

// Passthrough is a Translator that returns its input.
type Passthrough struct{}

// Translate implements Translator.
func (Passthrough) Translate(_ context.Context, text, _ string) string { return text }

// LLMTranslator translates through the model gateway.
type LLMTranslator struct {
	completer gateway.Completer
	logger    logging.Logger
}

// NewLLMTranslator builds an LLMTranslator.
func NewLLMTranslator(c gateway.Completer, logger logging.Logger) *LLMTranslator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &LLMTranslator{completer: c, logger: logger.Named("translation")}
}

// IsEnglish reports whether lang needs no translation.  An unknown language
// is treated as English.
func IsEnglish(lang string) bool {
	l := strings.ToLower(strings.TrimSpace(lang))
	return l == "" || l == "en" || l == "eng" || strings.HasPrefix(l, "en-")
}

// Prompt builds the translation request for text in lang.
func Prompt(text, lang string) string {
	return fmt.Sprintf("Translate the following %s text to English for supply-chain risk analysis.\n"+
		"Keep company, port, and region names unchanged.\n"+
		"Return only the translated text.\n\n%s", lang, text)
}

// Translate implements Translator.
func (t *LLMTranslator) Translate(ctx context.Context, text, lang string) string {
	if strings.TrimSpace(text) == "" || IsEnglish(lang) || t.completer == nil {
		return text
	}
	out, err := t.completer.Complete(ctx, Prompt(text, lang), gateway.WithSystemPrompt(SystemPrompt))
	if err != nil {
		t.logger.Warn("translation failed, keeping original text",
			logging.String("lang", lang), logging.Err(err))
		return text
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return text
	}
	return out
}

//Personal.AI order the ending
