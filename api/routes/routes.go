package routes

import (
	"birthdaybot-api/api/handlers"
	"birthdaybot-api/api/middleware"
	"birthdaybot-api/internal/chatbot"
	"birthdaybot-api/internal/scheduler"
	"birthdaybot-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes registers the HTTP surface: health probe and the Telegram
// webhook intake. The scheduler may be nil when the sweep is disabled.
func SetupRoutes(router *gin.Engine, db *gorm.DB, logger *logger.Logger, chatbotService chatbot.ChatbotService, reminderScheduler scheduler.ReminderScheduler) {
	router.Use(middleware.RequestLogging(logger))
	router.Use(gin.Recovery())

	healthHandler := handlers.NewHealthHandler(db, reminderScheduler, logger)
	webhookHandler := handlers.NewWebhookHandler(chatbotService, logger)

	router.GET("/health", healthHandler.Check)
	router.POST("/webhook/telegram", webhookHandler.HandleTelegramWebhook)
}
