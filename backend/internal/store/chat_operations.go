package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// ChatMessage is one entry in a user's append-only message log
type ChatMessage struct {
	ID                string `json:"id"`
	Platform          string `json:"platform"`
	UserID            string `json:"user_id"`
	Sender            string `json:"sender"` // "user" or "agent"
	MessageText       string `json:"message_text"`
	SessionID         string `json:"session_id"`
	PlatformMessageID string `json:"platform_message_id,omitempty"`
	Timestamp         string `json:"timestamp"`
}

// SaveChatMessage appends a message to the user's chat log with a server-side
// timestamp. The log is append-only; nothing in the core updates or deletes entries.
func (r *Repository) SaveChatMessage(ctx context.Context, platform, userID string, msg ChatMessage) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		MERGE (u:PlatformUser {platform: $platform, user_id: $userID})
		CREATE (m:Message {
			id: $id,
			sender: $sender,
			message_text: $messageText,
			session_id: $sessionID,
			platform_message_id: $platformMessageID,
			timestamp: datetime($now)
		})
		CREATE (u)-[:HAS_MESSAGE]->(m)
		RETURN m.id as id
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"platform":          platform,
		"userID":            userID,
		"id":                uuid.NewString(),
		"sender":            msg.Sender,
		"messageText":       msg.MessageText,
		"sessionID":         msg.SessionID,
		"platformMessageID": msg.PlatformMessageID,
		"now":               now,
	})
	if err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}

	r.logger.Debug("Chat message saved",
		zap.String("platform", platform),
		zap.String("user_id", userID),
		zap.String("sender", msg.Sender),
	)
	return nil
}

// GetChatHistory retrieves the most recent messages for a user in
// chronological order (oldest first)
func (r *Repository) GetChatHistory(ctx context.Context, platform, userID string, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:PlatformUser {platform: $platform, user_id: $userID})-[:HAS_MESSAGE]->(m:Message)
		RETURN m.id as id, m.sender as sender, m.message_text as message_text,
		       m.session_id as session_id, m.platform_message_id as platform_message_id,
		       toString(m.timestamp) as timestamp
		ORDER BY m.timestamp DESC
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"platform": platform,
		"userID":   userID,
		"limit":    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}

	messages := []ChatMessage{}
	for result.Next(ctx) {
		record := result.Record()
		messages = append(messages, ChatMessage{
			ID:                getStringFromRecord(record, "id"),
			Platform:          platform,
			UserID:            userID,
			Sender:            getStringFromRecord(record, "sender"),
			MessageText:       getStringFromRecord(record, "message_text"),
			SessionID:         getStringFromRecord(record, "session_id"),
			PlatformMessageID: getStringFromRecord(record, "platform_message_id"),
			Timestamp:         getStringFromRecord(record, "timestamp"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}

	// Query returns newest first; reverse to chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
