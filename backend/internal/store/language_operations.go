package store

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// LanguageOption is one supported language read from the language collection
type LanguageOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ListLanguages returns the supported language collection in stored order.
// An empty result is not an error; callers decide how to fall back.
func (r *Repository) ListLanguages(ctx context.Context) ([]LanguageOption, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (l:Language)
		RETURN l.code as code, l.name as name
		ORDER BY l.position
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}

	languages := []LanguageOption{}
	for result.Next(ctx) {
		record := result.Record()
		code := getStringFromRecord(record, "code")
		if code == "" {
			continue
		}
		name := getStringFromRecord(record, "name")
		if name == "" {
			name = code
		}
		languages = append(languages, LanguageOption{Code: code, Name: name})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read languages: %w", err)
	}

	return languages, nil
}
