package handlers

import (
	"net/http"
	"time"

	"birthdaybot-api/internal/database"
	"birthdaybot-api/internal/scheduler"
	"birthdaybot-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports liveness of the database and the reminder sweep.
type HealthHandler struct {
	db        *gorm.DB
	scheduler scheduler.ReminderScheduler
	logger    *logger.Logger
}

// NewHealthHandler creates a new HealthHandler instance. The scheduler
// may be nil when the sweep is disabled by configuration.
func NewHealthHandler(db *gorm.DB, reminderScheduler scheduler.ReminderScheduler, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		scheduler: reminderScheduler,
		logger:    logger,
	}
}

// Check answers 200 when the database pings and the scheduler is in
// working order, 503 otherwise.
func (h *HealthHandler) Check(c *gin.Context) {
	status := "ok"
	statusCode := http.StatusOK
	checks := gin.H{
		"database":  "ok",
		"scheduler": "ok",
	}

	if err := database.HealthCheck(h.db); err != nil {
		h.logger.Error("Database health check failed", "error", err)
		checks["database"] = "error"
		status = "error"
		statusCode = http.StatusServiceUnavailable
	}

	switch {
	case h.scheduler == nil:
		checks["scheduler"] = "disabled"
	case !h.scheduler.IsRunning() || !h.scheduler.HealthStatus().IsHealthy:
		sweepHealth := h.scheduler.HealthStatus()
		h.logger.Error("Scheduler health check failed",
			"running", h.scheduler.IsRunning(),
			"last_sweep_time", sweepHealth.LastSweepTime,
			"sweep_errors", sweepHealth.SweepErrors,
			"send_failures", sweepHealth.SendFailures)
		checks["scheduler"] = "error"
		status = "error"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":    status,
		"service":   "birthdaybot-api",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}
