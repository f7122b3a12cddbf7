package chatbot

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"birthdaybot-api/internal/config"
)

func TestNewTelegramProvider_RequiresToken(t *testing.T) {
	_, err := NewTelegramProvider(config.TelegramConfig{}, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestIsRetryableSendError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "rate limited",
			err:  &tgbotapi.Error{Code: 429, Message: "Too Many Requests", ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 5}},
			want: true,
		},
		{
			name: "server error",
			err:  &tgbotapi.Error{Code: 502, Message: "Bad Gateway"},
			want: true,
		},
		{
			name: "blocked by user",
			err:  &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"},
			want: false,
		},
		{
			name: "chat not found",
			err:  &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"},
			want: false,
		},
		{
			name: "network failure",
			err:  errors.New("dial tcp: i/o timeout"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableSendError(tt.err))
		})
	}
}

func TestWrapSendError(t *testing.T) {
	t.Run("telegram api error keeps details", func(t *testing.T) {
		apiErr := &tgbotapi.Error{
			Code:               429,
			Message:            "Too Many Requests",
			ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 7},
		}

		wrapped := wrapSendError(apiErr)

		telegramErr, ok := wrapped.(TelegramAPIError)
		require.True(t, ok)
		assert.Equal(t, 429, telegramErr.StatusCode)
		assert.Equal(t, "TOO_MANY_REQUESTS", telegramErr.APIError)
		assert.Equal(t, 7, telegramErr.RetryAfter)
		assert.True(t, telegramErr.Temporary())
	})

	t.Run("plain error becomes generic api error", func(t *testing.T) {
		wrapped := wrapSendError(errors.New("boom"))

		telegramErr, ok := wrapped.(TelegramAPIError)
		require.True(t, ok)
		assert.Equal(t, "UNKNOWN_ERROR", telegramErr.APIError)
		assert.Contains(t, telegramErr.Description, "boom")
	})
}

func TestGetTelegramErrorCode(t *testing.T) {
	assert.Equal(t, "FORBIDDEN", GetTelegramErrorCode(403))
	assert.Equal(t, "TOO_MANY_REQUESTS", GetTelegramErrorCode(429))
	assert.Equal(t, "UNKNOWN_ERROR", GetTelegramErrorCode(418))
}
