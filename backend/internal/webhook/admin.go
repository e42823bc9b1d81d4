package webhook

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func validPlatform(platform string) bool {
	switch platform {
	case "facebook", "instagram", "whatsapp":
		return true
	}
	return false
}

// ListUsers returns the stored user profiles for a platform
func (h *Handler) ListUsers(c *gin.Context) {
	platform := c.Query("platform")
	if !validPlatform(platform) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing platform. Options: facebook, instagram, whatsapp"})
		return
	}

	users, err := h.store.ListUsers(c.Request.Context(), platform)
	if err != nil {
		h.logger.Error("Failed to list users", zap.String("platform", platform), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// ChatHistory returns a user's recent messages in chronological order
func (h *Handler) ChatHistory(c *gin.Context) {
	userID := c.Query("user_id")
	platform := c.Query("platform")
	if userID == "" || platform == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id or platform"})
		return
	}
	if !validPlatform(platform) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid platform"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	history, err := h.store.GetChatHistory(c.Request.Context(), platform, userID, limit)
	if err != nil {
		h.logger.Error("Failed to fetch chat history",
			zap.String("platform", platform),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, history)
}

// AgentInvoke calls the agent backend directly, bypassing the workflow
func (h *Handler) AgentInvoke(c *gin.Context) {
	var req struct {
		UserID    string `json:"user_id" binding:"required"`
		Message   string `json:"message" binding:"required"`
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = req.UserID
	}

	reply, err := h.agent.Invoke(c.Request.Context(), req.Message, sessionID)
	if err != nil {
		h.logger.Error("Direct agent invocation failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invoke agent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":   reply,
		"session_id": sessionID,
	})
}

// Costs returns the aggregated cloud billing report
func (h *Handler) Costs(c *gin.Context) {
	report := h.costs.GetAllCosts(c.Request.Context(), c.Query("start"), c.Query("end"))
	c.JSON(http.StatusOK, report)
}
