package push

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"samvad-relay/backend/internal/workflow"
	apperrors "samvad-relay/backend/pkg/errors"
	"samvad-relay/backend/pkg/logger"
)

// messengerQuickReply is the Graph API quick reply envelope
type messengerQuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Payload     string `json:"payload"`
}

type messengerMessage struct {
	Text         string                `json:"text"`
	QuickReplies []messengerQuickReply `json:"quick_replies,omitempty"`
}

type messengerPayload struct {
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	Message messengerMessage `json:"message"`
}

func buildMessengerPayload(recipientID string, resp *workflow.Response) messengerPayload {
	var payload messengerPayload
	payload.Recipient.ID = recipientID
	payload.Message.Text = resp.Text

	for _, qr := range resp.QuickReplies {
		payload.Message.QuickReplies = append(payload.Message.QuickReplies, messengerQuickReply{
			ContentType: "text",
			Title:       qr.Title,
			Payload:     qr.Payload,
		})
	}
	return payload
}

// FacebookSender sends Messenger messages through the Graph API
type FacebookSender struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewFacebookSender creates a Facebook Messenger sender
func NewFacebookSender(accessToken, baseURL string) *FacebookSender {
	if baseURL == "" {
		baseURL = DefaultGraphBaseURL
	}
	return &FacebookSender{
		accessToken: accessToken,
		baseURL:     baseURL,
		httpClient:  newHTTPClient(),
		logger:      logger.Get(),
	}
}

// Send delivers a message with optional quick replies to a Messenger user
func (s *FacebookSender) Send(ctx context.Context, recipientID string, resp *workflow.Response) error {
	if s.accessToken == "" {
		return apperrors.NewConfigMissingRequired("FACEBOOK_PAGE_ACCESS_TOKEN")
	}

	url := s.baseURL + "/me/messages?access_token=" + s.accessToken
	if err := postJSON(ctx, s.httpClient, url, nil, buildMessengerPayload(recipientID, resp)); err != nil {
		return apperrors.NewPushSendFailed("facebook", recipientID, err)
	}

	s.logger.Info("Sent Facebook message", zap.String("recipient_id", recipientID))
	return nil
}
