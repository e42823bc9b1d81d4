package translate

import (
	"context"

	"go.uber.org/zap"
	"samvad-relay/backend/pkg/logger"
)

// Translator is the remote translation service contract
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
	Detect(ctx context.Context, text string) (string, error)
}

// Result carries a translation outcome. Degraded marks a fail-open fallback:
// Text then holds the untouched input (or default code) and Reason says why.
type Result struct {
	Text     string
	Degraded bool
	Reason   string
}

func ok(text string) Result {
	return Result{Text: text}
}

func degraded(text, reason string) Result {
	return Result{Text: text, Degraded: true, Reason: reason}
}

// Gateway wraps the translation service with fail-open semantics: callers
// always get usable text back, never an error.
type Gateway struct {
	translator Translator // nil when the service failed to initialize
	logger     *zap.Logger
}

// NewGateway creates a translation gateway. A nil translator degrades every
// call to pass-through rather than failing.
func NewGateway(translator Translator) *Gateway {
	return &Gateway{
		translator: translator,
		logger:     logger.Get(),
	}
}

// Translate translates text to the target language. On any failure the input
// text is returned unchanged, flagged as degraded. When translating to English
// without a known source, detection short-circuits text that is already English.
func (g *Gateway) Translate(ctx context.Context, text, target, source string) Result {
	if g.translator == nil {
		return degraded(text, "translation service not initialized")
	}

	if target == "en" && source == "" {
		if detected := g.Detect(ctx, text); detected.Text == "en" {
			return ok(text)
		}
	}

	translated, err := g.translator.Translate(ctx, text, source, target)
	if err != nil {
		g.logger.Error("Translation failed, returning input unchanged",
			zap.String("target", target),
			zap.Error(err),
		)
		return degraded(text, err.Error())
	}

	return ok(translated)
}

// Detect returns the detected language code for text, defaulting to "en" on
// any failure or absent service
func (g *Gateway) Detect(ctx context.Context, text string) Result {
	if g.translator == nil {
		return degraded("en", "translation service not initialized")
	}

	code, err := g.translator.Detect(ctx, text)
	if err != nil {
		g.logger.Error("Language detection failed, defaulting to en", zap.Error(err))
		return degraded("en", err.Error())
	}

	return ok(code)
}
