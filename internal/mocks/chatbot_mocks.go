package mocks

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MockTelegramProvider implements the chatbot.TelegramProvider interface for
// testing. It records outgoing messages and feeds polled updates from an
// in-memory channel, so tests can drive the full polling path without
// talking to the Telegram API.
type MockTelegramProvider struct {
	mutex              sync.Mutex
	sentMessages       []MockMessage
	webhookURL         string
	botInfo            *tgbotapi.User
	sendMessageError   error
	setWebhookError    error
	deleteWebhookError error
	getMeError         error
	callCounts         map[string]int
	updates            chan tgbotapi.Update
	stopOnce           sync.Once
	nextUpdateID       int
}

// MockMessage represents a sent message for testing verification
type MockMessage struct {
	ChatID    int64
	Text      string
	Timestamp time.Time
	MessageID int
}

// NewMockTelegramProvider creates a new mock Telegram provider
func NewMockTelegramProvider() *MockTelegramProvider {
	return &MockTelegramProvider{
		sentMessages: make([]MockMessage, 0),
		botInfo: &tgbotapi.User{
			ID:        123456789,
			UserName:  "mock_birthday_bot",
			FirstName: "Mock Bot",
			IsBot:     true,
		},
		callCounts:   make(map[string]int),
		updates:      make(chan tgbotapi.Update, 64),
		nextUpdateID: 1000,
	}
}

// SendMessage implements the TelegramProvider interface
func (m *MockTelegramProvider) SendMessage(chatID int64, text string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.callCounts["SendMessage"]++

	if m.sendMessageError != nil {
		return m.sendMessageError
	}

	message := MockMessage{
		ChatID:    chatID,
		Text:      text,
		Timestamp: time.Now(),
		MessageID: len(m.sentMessages) + 1,
	}

	m.sentMessages = append(m.sentMessages, message)
	return nil
}

// SetWebhook implements the TelegramProvider interface
func (m *MockTelegramProvider) SetWebhook(webhookURL string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.callCounts["SetWebhook"]++

	if m.setWebhookError != nil {
		return m.setWebhookError
	}

	m.webhookURL = webhookURL
	return nil
}

// DeleteWebhook implements the TelegramProvider interface
func (m *MockTelegramProvider) DeleteWebhook() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.callCounts["DeleteWebhook"]++

	if m.deleteWebhookError != nil {
		return m.deleteWebhookError
	}

	m.webhookURL = ""
	return nil
}

// GetMe implements the TelegramProvider interface
func (m *MockTelegramProvider) GetMe() (*tgbotapi.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.callCounts["GetMe"]++

	if m.getMeError != nil {
		return nil, m.getMeError
	}

	return m.botInfo, nil
}

// GetUpdatesChan implements the TelegramProvider interface. Updates queued
// with PushUpdate or PushMessage are delivered through the returned channel.
func (m *MockTelegramProvider) GetUpdatesChan(timeout int) tgbotapi.UpdatesChannel {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.callCounts["GetUpdatesChan"]++
	return m.updates
}

// StopPolling implements the TelegramProvider interface by closing the
// update channel. Safe to call more than once.
func (m *MockTelegramProvider) StopPolling() {
	m.stopOnce.Do(func() { close(m.updates) })
}

// Test helper methods

// PushUpdate queues an update for delivery through the polling channel
func (m *MockTelegramProvider) PushUpdate(update tgbotapi.Update) {
	m.updates <- update
}

// PushMessage queues a plain text message update from the given user and chat
func (m *MockTelegramProvider) PushMessage(userID, chatID int64, text string) {
	m.mutex.Lock()
	m.nextUpdateID++
	updateID := m.nextUpdateID
	m.mutex.Unlock()

	m.updates <- tgbotapi.Update{
		UpdateID: updateID,
		Message: &tgbotapi.Message{
			MessageID: updateID,
			From: &tgbotapi.User{
				ID:        userID,
				UserName:  fmt.Sprintf("user_%d", userID),
				FirstName: "Test User",
			},
			Chat: &tgbotapi.Chat{
				ID:   chatID,
				Type: "private",
			},
			Text: text,
			Date: int(time.Now().Unix()),
		},
	}
}

// GetSentMessages returns all sent messages
func (m *MockTelegramProvider) GetSentMessages() []MockMessage {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Return a copy to prevent race conditions
	messages := make([]MockMessage, len(m.sentMessages))
	copy(messages, m.sentMessages)
	return messages
}

// GetLastMessage returns the last sent message
func (m *MockTelegramProvider) GetLastMessage() *MockMessage {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if len(m.sentMessages) == 0 {
		return nil
	}
	message := m.sentMessages[len(m.sentMessages)-1]
	return &message
}

// GetMessagesForChat returns all messages sent to a specific chat
func (m *MockTelegramProvider) GetMessagesForChat(chatID int64) []MockMessage {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var chatMessages []MockMessage
	for _, msg := range m.sentMessages {
		if msg.ChatID == chatID {
			chatMessages = append(chatMessages, msg)
		}
	}
	return chatMessages
}

// MessageCount returns the number of messages sent so far
func (m *MockTelegramProvider) MessageCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.sentMessages)
}

// GetWebhookURL returns the currently set webhook URL
func (m *MockTelegramProvider) GetWebhookURL() string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.webhookURL
}

// GetCallCount returns the number of times a method was called
func (m *MockTelegramProvider) GetCallCount(method string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.callCounts[method]
}

// Configuration methods for testing different scenarios

// SetSendMessageError configures the provider to return an error on SendMessage
func (m *MockTelegramProvider) SetSendMessageError(err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sendMessageError = err
}

// SetWebhookError configures the provider to return an error on SetWebhook
func (m *MockTelegramProvider) SetWebhookError(err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.setWebhookError = err
}

// SetDeleteWebhookError configures the provider to return an error on DeleteWebhook
func (m *MockTelegramProvider) SetDeleteWebhookError(err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.deleteWebhookError = err
}

// SetGetMeError configures the provider to return an error on GetMe
func (m *MockTelegramProvider) SetGetMeError(err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.getMeError = err
}

// SetBotInfo configures the bot information returned by GetMe
func (m *MockTelegramProvider) SetBotInfo(botInfo *tgbotapi.User) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.botInfo = botInfo
}

// ClearHistory clears all sent messages and call counts
func (m *MockTelegramProvider) ClearHistory() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.sentMessages = make([]MockMessage, 0)
	m.callCounts = make(map[string]int)
}

// SimulateMessageUpdate builds raw webhook JSON for a text message update,
// matching the shape Telegram posts to the webhook endpoint.
func SimulateMessageUpdate(userID, chatID int64, text string) []byte {
	update := tgbotapi.Update{
		UpdateID: 123456,
		Message: &tgbotapi.Message{
			MessageID: 1,
			From: &tgbotapi.User{
				ID:        userID,
				UserName:  fmt.Sprintf("user_%d", userID),
				FirstName: "Test User",
			},
			Chat: &tgbotapi.Chat{
				ID:   chatID,
				Type: "private",
			},
			Text: text,
			Date: int(time.Now().Unix()),
		},
	}

	jsonData, _ := json.Marshal(update)
	return jsonData
}
