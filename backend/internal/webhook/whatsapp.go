package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"samvad-relay/backend/internal/store"
)

// whatsAppEnvelope is the WhatsApp Cloud API webhook body
type whatsAppEnvelope struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Value struct {
				Contacts []struct {
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
				Messages []struct {
					From string `json:"from"`
					ID   string `json:"id"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
					Interactive struct {
						ButtonReply struct {
							ID    string `json:"id"`
							Title string `json:"title"`
						} `json:"button_reply"`
					} `json:"interactive"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// WhatsAppWebhook handles WhatsApp Business deliveries
func (h *Handler) WhatsAppWebhook(c *gin.Context) {
	var envelope whatsAppEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		c.String(http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if envelope.Object != "whatsapp_business_account" {
		c.String(http.StatusNotFound, "Not a whatsapp event")
		return
	}

	ctx := c.Request.Context()
	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			value := change.Value

			var profileName string
			if len(value.Contacts) > 0 {
				profileName = value.Contacts[0].Profile.Name
			}

			for _, message := range value.Messages {
				text := message.Text.Body
				// Button taps arrive as interactive replies with the
				// button title as text and the button id as payload
				payload := message.Interactive.ButtonReply.ID
				if text == "" && payload != "" {
					text = message.Interactive.ButtonReply.Title
				}
				if message.From == "" || text == "" {
					continue
				}

				err := h.processInbound(ctx, inbound{
					platform:          "whatsapp",
					userID:            message.From,
					text:              text,
					payload:           payload,
					platformMessageID: message.ID,
					user: store.User{
						Platform:    "whatsapp",
						UserID:      message.From,
						PhoneNumber: message.From,
						ProfileName: profileName,
					},
				})
				if err != nil {
					h.logger.Error("Failed to process WhatsApp message",
						zap.String("sender_phone", message.From),
						zap.Error(err),
					)
					c.String(http.StatusInternalServerError, "Error processing message")
					return
				}
			}
		}
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")
}
