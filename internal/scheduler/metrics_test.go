package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSweepMetrics_Summary(t *testing.T) {
	metrics := NewSweepMetrics()

	summary := metrics.GetSummary()
	assert.Equal(t, int64(0), summary.SweepsCompleted)
	assert.Equal(t, int64(0), summary.RemindersSent)
	assert.True(t, summary.LastSweepTime.IsZero())

	metrics.RecordSweepCompleted(10, 3, 1, 2, 40*time.Millisecond)
	metrics.RecordSweepCompleted(10, 2, 0, 4, 20*time.Millisecond)
	metrics.RecordSweepError(errors.New("load failed"))

	summary = metrics.GetSummary()
	assert.Equal(t, int64(2), summary.SweepsCompleted)
	assert.Equal(t, int64(20), summary.RecordsEvaluated)
	assert.Equal(t, int64(5), summary.RemindersSent)
	assert.Equal(t, int64(1), summary.SendFailures)
	assert.Equal(t, int64(6), summary.RecordsSkipped)
	assert.Equal(t, int64(1), summary.SweepErrors)
	assert.False(t, summary.LastSweepTime.IsZero())
	assert.Equal(t, (20 * time.Millisecond).String(), summary.LastSweepDuration)
	assert.Equal(t, (30 * time.Millisecond).String(), summary.AverageSweepDuration)
}

func TestSweepMetrics_HealthStatus(t *testing.T) {
	metrics := NewSweepMetrics()

	// A fresh scheduler has nothing to hold against it.
	assert.True(t, metrics.IsHealthy())

	metrics.RecordSweepCompleted(5, 5, 0, 0, time.Millisecond)
	status := metrics.GetHealthStatus()
	assert.True(t, status.IsHealthy)
	assert.False(t, status.LastSweepTime.IsZero())
	assert.Equal(t, int64(0), status.SendFailures)

	// Deliveries failing wholesale flip the status.
	metrics.RecordSweepCompleted(5, 0, 5, 0, time.Millisecond)
	status = metrics.GetHealthStatus()
	assert.False(t, status.IsHealthy)
	assert.Equal(t, int64(5), status.SendFailures)
}

func TestSweepMetrics_Reset(t *testing.T) {
	metrics := NewSweepMetrics()
	metrics.RecordSweepCompleted(10, 3, 1, 2, time.Millisecond)
	metrics.RecordSweepPanic()

	metrics.Reset()

	summary := metrics.GetSummary()
	assert.Equal(t, int64(0), summary.SweepsCompleted)
	assert.Equal(t, int64(0), summary.SweepPanics)
	assert.True(t, summary.LastSweepTime.IsZero())
	assert.True(t, metrics.IsHealthy())
}
