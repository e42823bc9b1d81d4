package adapter

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	apperrors "samvad-relay/backend/pkg/errors"
	"samvad-relay/backend/pkg/logger"
)

// AgentGateway invokes the external conversational agent through an
// openai-compatible chat completion endpoint. The agent owns multi-turn memory;
// the session id passed to Invoke scopes it, so a given user must always use
// the same session id.
type AgentGateway struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewAgentGateway creates a new agent gateway
func NewAgentGateway(baseURL, apiKey, modelID string) *AgentGateway {
	// The gateway endpoint may not check keys; the client requires one anyway
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL + "/v1"

	return &AgentGateway{
		client: openai.NewClientWithConfig(config),
		model:  modelID,
		logger: logger.Get(),
	}
}

// Invoke sends a message to the agent and returns its reply. The response is
// streamed; fragments are concatenated in arrival order and trimmed. Missing
// configuration and transport failures are hard errors — the caller decides
// how to degrade.
func (g *AgentGateway) Invoke(ctx context.Context, message, sessionID string) (string, error) {
	if g.model == "" {
		return "", apperrors.NewConfigMissingRequired("AGENT_MODEL_ID")
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: message,
			},
		},
		Stream: true,
		User:   sessionID,
	}

	stream, err := g.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		g.logger.Error("Agent invocation failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return "", apperrors.NewAgentInvokeFailed(sessionID, err)
	}
	defer stream.Close()

	var completion strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			g.logger.Error("Agent stream interrupted",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
			return "", apperrors.NewAgentInvokeFailed(sessionID, err)
		}
		if len(resp.Choices) > 0 {
			completion.WriteString(resp.Choices[0].Delta.Content)
		}
	}

	reply := strings.TrimSpace(completion.String())
	g.logger.Debug("Agent reply received",
		zap.String("session_id", sessionID),
		zap.Int("reply_chars", len(reply)),
	)
	return reply, nil
}
