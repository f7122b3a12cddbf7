package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"birthdaybot-api/internal/birthday"
	"birthdaybot-api/internal/common"
	"birthdaybot-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockChatbotService records webhook payloads and fails on demand.
type mockChatbotService struct {
	mu           sync.Mutex
	webhookCalls [][]byte
	webhookErr   error
}

func (m *mockChatbotService) SendMessage(chatID common.ChatID, text string) error { return nil }

func (m *mockChatbotService) SendReminder(reminder birthday.DueReminder) error { return nil }

func (m *mockChatbotService) HandleWebhook(webhookData []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	payload := make([]byte, len(webhookData))
	copy(payload, webhookData)
	m.webhookCalls = append(m.webhookCalls, payload)
	return m.webhookErr
}

func (m *mockChatbotService) StartPolling() error { return nil }

func (m *mockChatbotService) StopPolling() {}

func (m *mockChatbotService) calls() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([][]byte, len(m.webhookCalls))
	copy(result, m.webhookCalls)
	return result
}

func setupWebhookTest(service *mockChatbotService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewWebhookHandler(service, logger.New())
	router.POST("/webhook/telegram", handler.HandleTelegramWebhook)
	return router
}

func postWebhook(router *gin.Engine, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_PassesBodyToService(t *testing.T) {
	service := &mockChatbotService{}
	router := setupWebhookTest(service)

	update := map[string]interface{}{
		"update_id": 123456,
		"message": map[string]interface{}{
			"message_id": 1,
			"from":       map[string]interface{}{"id": 7},
			"chat":       map[string]interface{}{"id": 7, "type": "private"},
			"text":       "/list",
		},
	}
	body, err := json.Marshal(update)
	require.NoError(t, err)

	w := postWebhook(router, body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())

	calls := service.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, body, calls[0])
}

func TestWebhookHandler_ServiceErrorStillReturns200(t *testing.T) {
	service := &mockChatbotService{webhookErr: errors.New("processing error")}
	router := setupWebhookTest(service)

	w := postWebhook(router, []byte(`{"update_id": 1}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
}

func TestWebhookHandler_MalformedJSONStillReturns200(t *testing.T) {
	service := &mockChatbotService{webhookErr: errors.New("failed to parse webhook update")}
	router := setupWebhookTest(service)

	w := postWebhook(router, []byte("{not valid json"))

	// Telegram redelivers anything that is not a 200, and a broken
	// payload stays broken.
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, service.calls(), 1)
}

func TestWebhookHandler_EmptyBodySkipsService(t *testing.T) {
	service := &mockChatbotService{}
	router := setupWebhookTest(service)

	w := postWebhook(router, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, service.calls())
}
