package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"birthdaybot-api/internal/config"
	"birthdaybot-api/internal/database"
	"birthdaybot-api/internal/mocks"
	"birthdaybot-api/internal/scheduler"
	"birthdaybot-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// newStubScheduler answers health probes with canned values.
func newStubScheduler(t *testing.T, running, healthy bool) *mocks.MockReminderScheduler {
	t.Helper()

	sched := mocks.NewMockReminderScheduler(gomock.NewController(t))
	sched.EXPECT().IsRunning().Return(running).AnyTimes()
	sched.EXPECT().HealthStatus().Return(scheduler.HealthStatus{
		IsHealthy:     healthy,
		LastSweepTime: time.Now(),
	}).AnyTimes()
	return sched
}

func setupHealthTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewConnection(config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   ":memory:",
	})
	require.NoError(t, err)
	return db
}

func healthResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestHealthHandler_Check_Healthy(t *testing.T) {
	router := setupHealthTest()
	handler := NewHealthHandler(newTestDB(t), newStubScheduler(t, true, true), logger.New())
	router.GET("/health", handler.Check)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	response := healthResponse(t, w)
	assert.Equal(t, "ok", response["status"])
	assert.Equal(t, "birthdaybot-api", response["service"])
	assert.NotEmpty(t, response["timestamp"])

	checks := response["checks"].(map[string]interface{})
	assert.Equal(t, "ok", checks["database"])
	assert.Equal(t, "ok", checks["scheduler"])
}

func TestHealthHandler_Check_NilDatabase(t *testing.T) {
	router := setupHealthTest()
	handler := NewHealthHandler(nil, newStubScheduler(t, true, true), logger.New())
	router.GET("/health", handler.Check)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	response := healthResponse(t, w)
	assert.Equal(t, "error", response["status"])

	checks := response["checks"].(map[string]interface{})
	assert.Equal(t, "error", checks["database"])
	assert.Equal(t, "ok", checks["scheduler"])
}

func TestHealthHandler_Check_UnhealthyScheduler(t *testing.T) {
	tests := []struct {
		name    string
		running bool
		healthy bool
	}{
		{name: "scheduler stopped", running: false, healthy: true},
		{name: "sweep failing", running: true, healthy: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupHealthTest()
			handler := NewHealthHandler(newTestDB(t), newStubScheduler(t, tt.running, tt.healthy), logger.New())
			router.GET("/health", handler.Check)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)

			response := healthResponse(t, w)
			assert.Equal(t, "error", response["status"])

			checks := response["checks"].(map[string]interface{})
			assert.Equal(t, "ok", checks["database"])
			assert.Equal(t, "error", checks["scheduler"])
		})
	}
}

func TestHealthHandler_Check_DisabledScheduler(t *testing.T) {
	router := setupHealthTest()
	handler := NewHealthHandler(newTestDB(t), nil, logger.New())
	router.GET("/health", handler.Check)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// A deliberately disabled sweep is not an outage.
	assert.Equal(t, http.StatusOK, w.Code)

	response := healthResponse(t, w)
	assert.Equal(t, "ok", response["status"])

	checks := response["checks"].(map[string]interface{})
	assert.Equal(t, "disabled", checks["scheduler"])
}

func TestHealthHandler_Check_ContentType(t *testing.T) {
	router := setupHealthTest()
	handler := NewHealthHandler(newTestDB(t), newStubScheduler(t, true, true), logger.New())
	router.GET("/health", handler.Check)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
}
