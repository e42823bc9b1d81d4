package language

import (
	"context"

	"go.uber.org/zap"
	"samvad-relay/backend/internal/store"
	"samvad-relay/backend/pkg/logger"
)

// Source reads the supported-language collection from the backing store
type Source interface {
	ListLanguages(ctx context.Context) ([]store.LanguageOption, error)
}

// defaultLanguages is the fallback set used when the store is empty or unreachable
var defaultLanguages = []store.LanguageOption{
	{Code: "en", Name: "English"},
	{Code: "ta", Name: "Tamil"},
	{Code: "ml", Name: "Malayalam"},
}

// Directory resolves the set of supported languages. It never fails outward:
// List always returns a non-empty ordered sequence.
type Directory struct {
	source Source
	logger *zap.Logger
}

// NewDirectory creates a language directory backed by the given source
func NewDirectory(source Source) *Directory {
	return &Directory{
		source: source,
		logger: logger.Get(),
	}
}

// List returns the supported languages in stored order, falling back to the
// default English/Tamil/Malayalam set when the store is empty or the read fails
func (d *Directory) List(ctx context.Context) []store.LanguageOption {
	languages, err := d.source.ListLanguages(ctx)
	if err != nil {
		d.logger.Error("Failed to fetch supported languages, using defaults", zap.Error(err))
		return defaultLanguages
	}
	if len(languages) == 0 {
		d.logger.Warn("No languages found in store, using defaults")
		return defaultLanguages
	}
	return languages
}

// IsSupported reports whether code is in the current directory snapshot.
// Matching is case-sensitive and exact.
func (d *Directory) IsSupported(ctx context.Context, code string) bool {
	for _, lang := range d.List(ctx) {
		if lang.Code == code {
			return true
		}
	}
	return false
}
