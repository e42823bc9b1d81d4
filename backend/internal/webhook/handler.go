package webhook

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"samvad-relay/backend/internal/cost"
	"samvad-relay/backend/internal/push"
	"samvad-relay/backend/internal/store"
	"samvad-relay/backend/internal/workflow"
	"samvad-relay/backend/pkg/logger"
)

// Store is the persistence surface the webhook layer needs
type Store interface {
	SaveUserDetails(ctx context.Context, platform, userID string, user store.User) error
	SaveChatMessage(ctx context.Context, platform, userID string, msg store.ChatMessage) error
	ListUsers(ctx context.Context, platform string) ([]store.User, error)
	GetChatHistory(ctx context.Context, platform, userID string, limit int) ([]store.ChatMessage, error)
}

// MessageHandler is the conversation workflow entry point
type MessageHandler interface {
	HandleMessage(ctx context.Context, platform, userID, text, payload string) *workflow.Response
}

// AgentInvoker is the direct agent path used by platforms that opt out of the
// language workflow, and by the admin invoke API
type AgentInvoker interface {
	Invoke(ctx context.Context, message, sessionID string) (string, error)
}

// CostReporter aggregates cloud billing costs
type CostReporter interface {
	GetAllCosts(ctx context.Context, start, end string) *cost.Report
}

// Handler serves the platform webhooks and the admin read APIs
type Handler struct {
	store       Store
	workflow    MessageHandler
	agent       AgentInvoker
	costs       CostReporter
	senders     map[string]push.Sender
	verifyToken string
	// platforms routed through the language/translation workflow;
	// others keep the legacy direct-agent path
	translationEnabled map[string]bool
	logger             *zap.Logger
}

// NewHandler creates the webhook handler with all collaborators injected
func NewHandler(st Store, wf MessageHandler, agent AgentInvoker, costs CostReporter, senders map[string]push.Sender, verifyToken string, translationPlatforms []string) *Handler {
	enabled := make(map[string]bool, len(translationPlatforms))
	for _, p := range translationPlatforms {
		enabled[p] = true
	}
	return &Handler{
		store:              st,
		workflow:           wf,
		agent:              agent,
		costs:              costs,
		senders:            senders,
		verifyToken:        verifyToken,
		translationEnabled: enabled,
		logger:             logger.Get(),
	}
}

// RegisterRoutes mounts all endpoints on the router
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/webhook/facebook", h.VerifyWebhook)
	router.POST("/webhook/facebook", h.FacebookWebhook)
	router.GET("/webhook/instagram", h.VerifyWebhook)
	router.POST("/webhook/instagram", h.InstagramWebhook)
	router.GET("/webhook/whatsapp", h.VerifyWebhook)
	router.POST("/webhook/whatsapp", h.WhatsAppWebhook)

	api := router.Group("/api")
	{
		api.GET("/users", h.ListUsers)
		api.GET("/chat/history", h.ChatHistory)
		api.POST("/agent/invoke", h.AgentInvoke)
		api.GET("/costs", h.Costs)
	}
}

// VerifyWebhook answers the Meta webhook subscription challenge
func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.verifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.String(http.StatusForbidden, "Forbidden")
}

// inbound is one normalized webhook delivery
type inbound struct {
	platform          string
	userID            string
	text              string
	payload           string
	platformMessageID string
	user              store.User
}

// processInbound runs the persist → handle → send → persist loop for one
// delivery. The returned error only reflects the reply computation; storage and
// delivery failures are logged and swallowed so the platform is not re-delivered.
func (h *Handler) processInbound(ctx context.Context, msg inbound) error {
	if err := h.store.SaveUserDetails(ctx, msg.platform, msg.userID, msg.user); err != nil {
		h.logger.Error("Failed to save user details",
			zap.String("platform", msg.platform),
			zap.String("user_id", msg.userID),
			zap.Error(err),
		)
	}

	if err := h.store.SaveChatMessage(ctx, msg.platform, msg.userID, store.ChatMessage{
		Sender:            "user",
		MessageText:       msg.text,
		SessionID:         msg.userID,
		PlatformMessageID: msg.platformMessageID,
	}); err != nil {
		h.logger.Error("Failed to save inbound message",
			zap.String("platform", msg.platform),
			zap.String("user_id", msg.userID),
			zap.Error(err),
		)
	}

	var resp *workflow.Response
	if h.translationEnabled[msg.platform] {
		resp = h.workflow.HandleMessage(ctx, msg.platform, msg.userID, msg.text, msg.payload)
	} else {
		reply, err := h.agent.Invoke(ctx, msg.text, msg.userID)
		if err != nil {
			return err
		}
		resp = &workflow.Response{Text: reply}
	}

	if resp == nil || resp.Text == "" {
		return nil
	}

	if sender, ok := h.senders[msg.platform]; ok {
		if err := sender.Send(ctx, msg.userID, resp); err != nil {
			h.logger.Error("Failed to send reply",
				zap.String("platform", msg.platform),
				zap.String("user_id", msg.userID),
				zap.Error(err),
			)
		}
	}

	if err := h.store.SaveChatMessage(ctx, msg.platform, msg.userID, store.ChatMessage{
		Sender:      "agent",
		MessageText: resp.Text,
		SessionID:   msg.userID,
	}); err != nil {
		h.logger.Error("Failed to save outbound message",
			zap.String("platform", msg.platform),
			zap.String("user_id", msg.userID),
			zap.Error(err),
		)
	}

	return nil
}
