package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"samvad-relay/backend/internal/store"
)

// InstagramWebhook handles Instagram DM deliveries. Instagram reuses the
// Messenger envelope; some deliveries arrive with object "page".
func (h *Handler) InstagramWebhook(c *gin.Context) {
	var envelope messengerEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		c.String(http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if envelope.Object != "instagram" && envelope.Object != "page" {
		c.String(http.StatusNotFound, "Not an instagram event")
		return
	}

	ctx := c.Request.Context()
	for _, entry := range envelope.Entry {
		for _, event := range entry.Messaging {
			if event.Sender.ID == "" || event.Message.Text == "" {
				continue
			}

			err := h.processInbound(ctx, inbound{
				platform:          "instagram",
				userID:            event.Sender.ID,
				text:              event.Message.Text,
				payload:           event.Message.QuickReply.Payload,
				platformMessageID: event.Message.MID,
				user:              store.User{Platform: "instagram", UserID: event.Sender.ID},
			})
			if err != nil {
				h.logger.Error("Failed to process Instagram message",
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
