package store

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// User is a per-platform user profile document
type User struct {
	Platform          string `json:"platform"`
	UserID            string `json:"user_id"`
	PhoneNumber       string `json:"phone_number,omitempty"`
	ProfileName       string `json:"profile_name,omitempty"`
	PreferredLanguage string `json:"preferred_language,omitempty"`
	MessageCount      int64  `json:"message_count"`
	FirstInteraction  string `json:"first_interaction,omitempty"`
	LastInteraction   string `json:"last_interaction,omitempty"`
}

// SaveUserDetails upserts a user profile keyed by (platform, user_id). Optional
// fields merge into the existing document; first_interaction is set once and
// message_count increments on every call.
func (r *Repository) SaveUserDetails(ctx context.Context, platform, userID string, user User) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		MERGE (u:PlatformUser {platform: $platform, user_id: $userID})
		ON CREATE SET
			u.first_interaction = datetime($now),
			u.message_count = 1
		ON MATCH SET
			u.message_count = coalesce(u.message_count, 0) + 1
		SET u.last_interaction = datetime($now),
			u.phone_number = CASE WHEN $phoneNumber <> '' THEN $phoneNumber ELSE u.phone_number END,
			u.profile_name = CASE WHEN $profileName <> '' THEN $profileName ELSE u.profile_name END
		RETURN u.user_id as user_id
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"platform":    platform,
		"userID":      userID,
		"now":         now,
		"phoneNumber": user.PhoneNumber,
		"profileName": user.ProfileName,
	})
	if err != nil {
		return fmt.Errorf("failed to save user details: %w", err)
	}

	r.logger.Debug("User details saved",
		zap.String("platform", platform),
		zap.String("user_id", userID),
	)
	return nil
}

// GetUserLanguage retrieves the preferred language for a user.
// Absent user or absent field both return "" with no error.
func (r *Repository) GetUserLanguage(ctx context.Context, platform, userID string) (string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:PlatformUser {platform: $platform, user_id: $userID})
		RETURN u.preferred_language as preferred_language
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"platform": platform,
		"userID":   userID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get language preference: %w", err)
	}

	if result.Next(ctx) {
		return getStringFromRecord(result.Record(), "preferred_language"), nil
	}

	return "", nil // No preference set
}

// SetUserLanguage sets the preferred language for a user. The write merges into
// the existing profile document; calling it twice with the same code is a no-op.
func (r *Repository) SetUserLanguage(ctx context.Context, platform, userID, language string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (u:PlatformUser {platform: $platform, user_id: $userID})
		SET u.preferred_language = $language
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"platform": platform,
		"userID":   userID,
		"language": language,
	})
	if err != nil {
		return fmt.Errorf("failed to set language preference: %w", err)
	}

	r.logger.Info("Language preference set",
		zap.String("platform", platform),
		zap.String("user_id", userID),
		zap.String("language", language),
	)
	return nil
}

// ListUsers returns every user profile stored for a platform
func (r *Repository) ListUsers(ctx context.Context, platform string) ([]User, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:PlatformUser {platform: $platform})
		RETURN u.platform as platform, u.user_id as user_id,
		       u.phone_number as phone_number, u.profile_name as profile_name,
		       u.preferred_language as preferred_language, u.message_count as message_count,
		       toString(u.first_interaction) as first_interaction,
		       toString(u.last_interaction) as last_interaction
		ORDER BY u.last_interaction DESC
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"platform": platform,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := []User{}
	for result.Next(ctx) {
		record := result.Record()
		users = append(users, User{
			Platform:          getStringFromRecord(record, "platform"),
			UserID:            getStringFromRecord(record, "user_id"),
			PhoneNumber:       getStringFromRecord(record, "phone_number"),
			ProfileName:       getStringFromRecord(record, "profile_name"),
			PreferredLanguage: getStringFromRecord(record, "preferred_language"),
			MessageCount:      getInt64FromRecord(record, "message_count"),
			FirstInteraction:  getStringFromRecord(record, "first_interaction"),
			LastInteraction:   getStringFromRecord(record, "last_interaction"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	return users, nil
}
