package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"samvad-relay/backend/internal/store"
)

// messengerEnvelope is the Messenger Platform webhook body, shared by
// Facebook and Instagram deliveries
type messengerEnvelope struct {
	Object string `json:"object"`
	Entry  []struct {
		Messaging []struct {
			Sender struct {
				ID string `json:"id"`
			} `json:"sender"`
			Message struct {
				MID        string `json:"mid"`
				Text       string `json:"text"`
				QuickReply struct {
					Payload string `json:"payload"`
				} `json:"quick_reply"`
			} `json:"message"`
		} `json:"messaging"`
	} `json:"entry"`
}

// FacebookWebhook handles Facebook Messenger deliveries
func (h *Handler) FacebookWebhook(c *gin.Context) {
	var envelope messengerEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		c.String(http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if envelope.Object != "page" {
		c.String(http.StatusNotFound, "Not a page event")
		return
	}

	ctx := c.Request.Context()
	for _, entry := range envelope.Entry {
		for _, event := range entry.Messaging {
			if event.Sender.ID == "" || event.Message.Text == "" {
				continue
			}

			err := h.processInbound(ctx, inbound{
				platform:          "facebook",
				userID:            event.Sender.ID,
				text:              event.Message.Text,
				payload:           event.Message.QuickReply.Payload,
				platformMessageID: event.Message.MID,
				user:              store.User{Platform: "facebook", UserID: event.Sender.ID},
			})
			if err != nil {
				h.logger.Error("Failed to process Facebook message",
					zap.String("sender_id", event.Sender.ID),
					zap.Error(err),
				)
				c.String(http.StatusInternalServerError, "Error processing message")
				return
			}
		}
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")
}
