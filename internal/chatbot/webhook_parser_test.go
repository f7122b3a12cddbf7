package chatbot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUpdate(t *testing.T) {
	parser := NewWebhookParser()

	t.Run("valid update", func(t *testing.T) {
		data := updateBytes(t, newTextUpdate(77, 12345, "hello"))

		update, err := parser.ParseUpdate(data)
		require.NoError(t, err)
		assert.Equal(t, 77, update.UpdateID)
		require.NotNil(t, update.Message)
		assert.Equal(t, "hello", update.Message.Text)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := parser.ParseUpdate(nil)
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := parser.ParseUpdate([]byte("{not json"))
		assert.Error(t, err)
	})

	t.Run("missing update id", func(t *testing.T) {
		_, err := parser.ParseUpdate([]byte(`{"message":{"text":"hi"}}`))
		assert.Error(t, err)
	})
}

func TestExtractMessage(t *testing.T) {
	parser := NewWebhookParser()

	t.Run("text message", func(t *testing.T) {
		update := newTextUpdate(1, 99001122, "hello there")

		message, err := parser.ExtractMessage(&update)
		require.NoError(t, err)
		assert.Equal(t, "99001122", string(message.UserID))
		assert.Equal(t, "99001122", string(message.ChatID))
		assert.Equal(t, "hello there", message.Text)
		assert.Equal(t, MessageTypeText, message.MessageType)
	})

	t.Run("caption fallback for media", func(t *testing.T) {
		update := newTextUpdate(2, 7, "")
		update.Message.Caption = "look at this"

		message, err := parser.ExtractMessage(&update)
		require.NoError(t, err)
		assert.Equal(t, "look at this", message.Text)
	})

	t.Run("nil update", func(t *testing.T) {
		_, err := parser.ExtractMessage(nil)
		assert.Error(t, err)
	})

	t.Run("update without message", func(t *testing.T) {
		_, err := parser.ExtractMessage(&tgbotapi.Update{UpdateID: 3})
		assert.Error(t, err)
	})

	t.Run("message without sender", func(t *testing.T) {
		update := newTextUpdate(4, 7, "hi")
		update.Message.From = nil

		_, err := parser.ExtractMessage(&update)
		assert.Error(t, err)
	})
}

func TestDetermineMessageType(t *testing.T) {
	parser := NewWebhookParser()

	command := newCommandUpdate(1, 7, "/list")
	assert.Equal(t, MessageTypeCommand, parser.DetermineMessageType(&command))

	text := newTextUpdate(2, 7, "/list without entity is plain text")
	assert.Equal(t, MessageTypeText, parser.DetermineMessageType(&text))
}

func TestGetChatID(t *testing.T) {
	parser := NewWebhookParser()

	t.Run("private chat", func(t *testing.T) {
		update := newTextUpdate(1, 99001122, "hi")

		chatID, err := parser.GetChatID(&update)
		require.NoError(t, err)
		assert.Equal(t, "99001122", string(chatID))
	})

	t.Run("group chat keeps negative id", func(t *testing.T) {
		update := newTextUpdate(2, -1001234567, "hi")

		chatID, err := parser.GetChatID(&update)
		require.NoError(t, err)
		assert.Equal(t, "-1001234567", string(chatID))
	})

	t.Run("no chat information", func(t *testing.T) {
		_, err := parser.GetChatID(&tgbotapi.Update{UpdateID: 3})
		assert.Error(t, err)
	})
}

func TestGetUserID(t *testing.T) {
	parser := NewWebhookParser()

	update := newTextUpdate(1, 424242, "hi")

	userID, err := parser.GetUserID(&update)
	require.NoError(t, err)
	assert.Equal(t, "424242", string(userID))

	update.Message.From = nil
	_, err = parser.GetUserID(&update)
	assert.Error(t, err)
}

func TestBuildCorrelationID(t *testing.T) {
	parser := NewWebhookParser()

	update := newTextUpdate(9, 7, "hi")
	first := parser.BuildCorrelationID(&update)
	assert.NotEmpty(t, first)
	assert.Contains(t, first, "msg_9_")

	assert.NotEmpty(t, parser.BuildCorrelationID(nil))
}
