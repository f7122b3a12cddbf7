package chatbot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramProvider defines the contract for Telegram API operations
type TelegramProvider interface {
	// SendMessage sends an HTML-formatted text message to the specified chat
	SendMessage(chatID int64, text string) error

	// SetWebhook configures the webhook URL for receiving updates
	SetWebhook(webhookURL string) error

	// DeleteWebhook removes the configured webhook
	DeleteWebhook() error

	// GetMe returns information about the bot
	GetMe() (*tgbotapi.User, error)

	// GetUpdatesChan starts long polling and returns the update channel
	GetUpdatesChan(timeout int) tgbotapi.UpdatesChannel

	// StopPolling stops long polling; the update channel is closed after
	// the in-flight request finishes
	StopPolling()
}
