package handlers

import (
	"io"
	"net/http"

	"birthdaybot-api/internal/chatbot"
	"birthdaybot-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WebhookHandler handles Telegram webhook requests
type WebhookHandler struct {
	chatbotService chatbot.ChatbotService
	logger         *logger.Logger
}

// NewWebhookHandler creates a new WebhookHandler instance
func NewWebhookHandler(chatbotService chatbot.ChatbotService, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		chatbotService: chatbotService,
		logger:         logger,
	}
}

// HandleTelegramWebhook passes an incoming Telegram update to the
// chatbot service. It answers 200 unconditionally: any other status
// makes Telegram redeliver the update, and a malformed payload will not
// improve on the second try.
func (h *WebhookHandler) HandleTelegramWebhook(c *gin.Context) {
	correlationID := uuid.New().String()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("Failed to read webhook body",
			"correlation_id", correlationID,
			"error", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if len(body) == 0 {
		h.logger.Warn("Received empty webhook body",
			"correlation_id", correlationID)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if contentType := c.GetHeader("Content-Type"); contentType != "application/json" {
		h.logger.Warn("Unexpected webhook content type",
			"correlation_id", correlationID,
			"content_type", contentType)
	}

	if err := h.chatbotService.HandleWebhook(body); err != nil {
		h.logger.Error("Failed to process webhook",
			"correlation_id", correlationID,
			"error", err,
			"body_size", len(body))
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	h.logger.Debug("Webhook processed",
		"correlation_id", correlationID,
		"body_size", len(body))

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
