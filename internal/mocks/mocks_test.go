package mocks

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"birthdaybot-api/internal/chatbot"
	"birthdaybot-api/internal/scheduler"
)

func TestMockTelegramProvider_RecordsSentMessages(t *testing.T) {
	provider := NewMockTelegramProvider()

	require.NoError(t, provider.SendMessage(100, "first"))
	require.NoError(t, provider.SendMessage(200, "second"))
	require.NoError(t, provider.SendMessage(100, "third"))

	assert.Equal(t, 3, provider.MessageCount())
	assert.Equal(t, 3, provider.GetCallCount("SendMessage"))

	last := provider.GetLastMessage()
	require.NotNil(t, last)
	assert.Equal(t, int64(100), last.ChatID)
	assert.Equal(t, "third", last.Text)

	forChat := provider.GetMessagesForChat(100)
	require.Len(t, forChat, 2)
	assert.Equal(t, "first", forChat[0].Text)
	assert.Equal(t, "third", forChat[1].Text)

	provider.ClearHistory()
	assert.Equal(t, 0, provider.MessageCount())
	assert.Nil(t, provider.GetLastMessage())
}

func TestMockTelegramProvider_SendMessageError(t *testing.T) {
	provider := NewMockTelegramProvider()
	provider.SetSendMessageError(errors.New("telegram unavailable"))

	err := provider.SendMessage(100, "lost")
	require.Error(t, err)
	assert.Equal(t, 0, provider.MessageCount())

	// Clearing the error restores delivery
	provider.SetSendMessageError(nil)
	require.NoError(t, provider.SendMessage(100, "delivered"))
	assert.Equal(t, 1, provider.MessageCount())
}

func TestMockTelegramProvider_WebhookLifecycle(t *testing.T) {
	provider := NewMockTelegramProvider()

	require.NoError(t, provider.SetWebhook("https://example.com/webhook/telegram"))
	assert.Equal(t, "https://example.com/webhook/telegram", provider.GetWebhookURL())

	require.NoError(t, provider.DeleteWebhook())
	assert.Empty(t, provider.GetWebhookURL())

	assert.Equal(t, 1, provider.GetCallCount("SetWebhook"))
	assert.Equal(t, 1, provider.GetCallCount("DeleteWebhook"))

	provider.SetWebhookError(errors.New("refused"))
	assert.Error(t, provider.SetWebhook("https://example.com/other"))
}

func TestMockTelegramProvider_PollingDeliversPushedUpdates(t *testing.T) {
	provider := NewMockTelegramProvider()

	updates := provider.GetUpdatesChan(30)
	provider.PushMessage(123, 456, "/help")

	select {
	case update := <-updates:
		require.NotNil(t, update.Message)
		assert.Equal(t, int64(123), update.Message.From.ID)
		assert.Equal(t, int64(456), update.Message.Chat.ID)
		assert.Equal(t, "/help", update.Message.Text)
	case <-time.After(time.Second):
		t.Fatal("expected a pushed update on the polling channel")
	}

	provider.StopPolling()
	provider.StopPolling() // second stop must not panic

	_, open := <-updates
	assert.False(t, open, "update channel should be closed after StopPolling")
}

func TestSimulateMessageUpdate_ParsesAsTelegramUpdate(t *testing.T) {
	payload := SimulateMessageUpdate(7, 7, "/add Masha 14.02.2004")

	parser := chatbot.NewWebhookParser()
	update, err := parser.ParseUpdate(payload)
	require.NoError(t, err)

	message, err := parser.ExtractMessage(update)
	require.NoError(t, err)

	assert.Equal(t, "/add Masha 14.02.2004", message.Text)
	assert.Equal(t, "7", string(message.UserID))
	assert.Equal(t, "7", string(message.ChatID))
	assert.Equal(t, chatbot.MessageTypeCommand, message.MessageType)
}

func TestMockReminderScheduler_RecordsExpectations(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := NewMockReminderScheduler(ctrl)

	mock.EXPECT().Start().Return(nil)
	mock.EXPECT().IsRunning().Return(true)
	mock.EXPECT().HealthStatus().Return(scheduler.HealthStatus{IsHealthy: true})
	mock.EXPECT().Stop().Return(errors.New("drain timed out"))

	require.NoError(t, mock.Start())
	assert.True(t, mock.IsRunning())
	assert.True(t, mock.HealthStatus().IsHealthy)
	assert.Error(t, mock.Stop())
}
