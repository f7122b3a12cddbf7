package chatbot

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"birthdaybot-api/internal/common"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WebhookParser provides utilities for parsing Telegram webhook updates
type WebhookParser struct{}

// NewWebhookParser creates a new WebhookParser instance
func NewWebhookParser() *WebhookParser {
	return &WebhookParser{}
}

// ParseUpdate unmarshals webhook data into a Telegram Update struct
func (p *WebhookParser) ParseUpdate(updateData []byte) (*tgbotapi.Update, error) {
	if len(updateData) == 0 {
		return nil, fmt.Errorf("empty update data")
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(updateData, &update); err != nil {
		return nil, fmt.Errorf("failed to unmarshal update data: %w", err)
	}

	// Basic validation
	if update.UpdateID == 0 {
		return nil, fmt.Errorf("invalid update: missing update ID")
	}

	return &update, nil
}

// ExtractMessage converts a Telegram message to domain Message struct
func (p *WebhookParser) ExtractMessage(update *tgbotapi.Update) (*Message, error) {
	if update == nil {
		return nil, fmt.Errorf("update is nil")
	}

	if update.Message == nil {
		return nil, fmt.Errorf("update does not contain a message")
	}

	msg := update.Message

	// Validate required fields
	if msg.From == nil {
		return nil, fmt.Errorf("message does not contain sender information")
	}

	if msg.Chat == nil {
		return nil, fmt.Errorf("message does not contain chat information")
	}

	text := msg.Text
	if text == "" && msg.Caption != "" {
		text = msg.Caption // Use caption for media messages
	}

	return &Message{
		ID:          common.ID(strconv.Itoa(msg.MessageID)),
		UserID:      common.UserID(strconv.FormatInt(msg.From.ID, 10)),
		ChatID:      common.ChatID(strconv.FormatInt(msg.Chat.ID, 10)),
		Text:        text,
		Timestamp:   time.Unix(int64(msg.Date), 0),
		MessageType: p.DetermineMessageType(update),
	}, nil
}

// DetermineMessageType classifies the message type
func (p *WebhookParser) DetermineMessageType(update *tgbotapi.Update) MessageType {
	if update.Message != nil && update.Message.IsCommand() {
		return MessageTypeCommand
	}

	return MessageTypeText
}

// BuildCorrelationID generates a unique correlation ID for tracking
func (p *WebhookParser) BuildCorrelationID(update *tgbotapi.Update) string {
	if update == nil {
		return fmt.Sprintf("corr_%d", time.Now().UnixNano())
	}

	updateID := update.UpdateID
	timestamp := time.Now().Unix()

	if update.Message != nil {
		return fmt.Sprintf("msg_%d_%d_%d", updateID, update.Message.MessageID, timestamp)
	}

	return fmt.Sprintf("upd_%d_%d", updateID, timestamp)
}

// GetUserID extracts the sender's Telegram ID as a decimal string
func (p *WebhookParser) GetUserID(update *tgbotapi.Update) (common.UserID, error) {
	if update == nil {
		return "", fmt.Errorf("update is nil")
	}

	if update.Message == nil || update.Message.From == nil {
		return "", fmt.Errorf("no user information found in update")
	}

	return common.UserID(strconv.FormatInt(update.Message.From.ID, 10)), nil
}

// GetChatID extracts the chat's Telegram ID as a decimal string. The chat
// id doubles as the owner key for stored birthdays, so the raw numeric
// value is kept rather than any derived identifier.
func (p *WebhookParser) GetChatID(update *tgbotapi.Update) (common.ChatID, error) {
	if update == nil {
		return "", fmt.Errorf("update is nil")
	}

	if update.Message == nil || update.Message.Chat == nil {
		return "", fmt.Errorf("no chat information found in update")
	}

	return common.ChatID(strconv.FormatInt(update.Message.Chat.ID, 10)), nil
}
