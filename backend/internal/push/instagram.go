package push

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"samvad-relay/backend/internal/workflow"
	apperrors "samvad-relay/backend/pkg/errors"
	"samvad-relay/backend/pkg/logger"
)

// InstagramSender sends Instagram DMs through the Messenger Graph API.
// Instagram shares the Messenger send endpoint; the token may differ.
type InstagramSender struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewInstagramSender creates an Instagram sender. fallbackToken is the Facebook
// page token, used when no Instagram-specific token is configured.
func NewInstagramSender(accessToken, fallbackToken, baseURL string) *InstagramSender {
	if accessToken == "" {
		accessToken = fallbackToken
	}
	if baseURL == "" {
		baseURL = DefaultGraphBaseURL
	}
	return &InstagramSender{
		accessToken: accessToken,
		baseURL:     baseURL,
		httpClient:  newHTTPClient(),
		logger:      logger.Get(),
	}
}

// Send delivers a message with optional quick replies to an Instagram user
func (s *InstagramSender) Send(ctx context.Context, recipientID string, resp *workflow.Response) error {
	if s.accessToken == "" {
		return apperrors.NewConfigMissingRequired("INSTAGRAM_PAGE_ACCESS_TOKEN")
	}

	url := s.baseURL + "/me/messages?access_token=" + s.accessToken
	if err := postJSON(ctx, s.httpClient, url, nil, buildMessengerPayload(recipientID, resp)); err != nil {
		return apperrors.NewPushSendFailed("instagram", recipientID, err)
	}

	s.logger.Info("Sent Instagram message", zap.String("recipient_id", recipientID))
	return nil
}
