package push

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"samvad-relay/backend/internal/workflow"
	apperrors "samvad-relay/backend/pkg/errors"
	"samvad-relay/backend/pkg/logger"
)

// maxWhatsAppButtons is the Cloud API cap on interactive reply buttons
const maxWhatsAppButtons = 3

type whatsAppReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type whatsAppButton struct {
	Type  string        `json:"type"`
	Reply whatsAppReply `json:"reply"`
}

type whatsAppText struct {
	Body string `json:"body"`
}

type whatsAppInteractive struct {
	Type   string       `json:"type"`
	Body   whatsAppText `json:"body"`
	Action struct {
		Buttons []whatsAppButton `json:"buttons"`
	} `json:"action"`
}

type whatsAppPayload struct {
	MessagingProduct string               `json:"messaging_product"`
	To               string               `json:"to"`
	Type             string               `json:"type"`
	Text             *whatsAppText        `json:"text,omitempty"`
	Interactive      *whatsAppInteractive `json:"interactive,omitempty"`
}

func buildWhatsAppPayload(recipientPhone string, resp *workflow.Response) whatsAppPayload {
	payload := whatsAppPayload{
		MessagingProduct: "whatsapp",
		To:               recipientPhone,
	}

	if len(resp.Buttons) > 0 && len(resp.Buttons) <= maxWhatsAppButtons {
		payload.Type = "interactive"
		payload.Interactive = &whatsAppInteractive{
			Type: "button",
			Body: whatsAppText{Body: resp.Text},
		}
		for _, btn := range resp.Buttons {
			payload.Interactive.Action.Buttons = append(payload.Interactive.Action.Buttons, whatsAppButton{
				Type:  "reply",
				Reply: whatsAppReply{ID: btn.ID, Title: btn.Title},
			})
		}
		return payload
	}

	payload.Type = "text"
	payload.Text = &whatsAppText{Body: resp.Text}
	return payload
}

// WhatsAppSender sends messages through the WhatsApp Cloud API
type WhatsAppSender struct {
	accessToken   string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewWhatsAppSender creates a WhatsApp sender. fallbackToken is the Facebook
// page token, used when no WhatsApp-specific token is configured.
func NewWhatsAppSender(accessToken, fallbackToken, phoneNumberID, baseURL string) *WhatsAppSender {
	if accessToken == "" {
		accessToken = fallbackToken
	}
	if baseURL == "" {
		baseURL = DefaultGraphBaseURL
	}
	return &WhatsAppSender{
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		baseURL:       baseURL,
		httpClient:    newHTTPClient(),
		logger:        logger.Get(),
	}
}

// Send delivers a message to a WhatsApp user, as an interactive button message
// when the descriptor carries buttons and as plain text otherwise
func (s *WhatsAppSender) Send(ctx context.Context, recipientPhone string, resp *workflow.Response) error {
	if s.accessToken == "" || s.phoneNumberID == "" {
		return apperrors.NewConfigMissingRequired("WHATSAPP_ACCESS_TOKEN")
	}

	url := s.baseURL + "/" + s.phoneNumberID + "/messages"
	headers := map[string]string{"Authorization": "Bearer " + s.accessToken}
	if err := postJSON(ctx, s.httpClient, url, headers, buildWhatsAppPayload(recipientPhone, resp)); err != nil {
		return apperrors.NewPushSendFailed("whatsapp", recipientPhone, err)
	}

	s.logger.Info("Sent WhatsApp message", zap.String("recipient_phone", recipientPhone))
	return nil
}
