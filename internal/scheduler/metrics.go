package scheduler

import (
	"sync"
	"time"
)

// staleSweepAge is how long after the last completed sweep the scheduler
// still counts as healthy. The sweep runs once a day, so a bit over a
// full day of silence means a missed firing.
const staleSweepAge = 25 * time.Hour

// SweepMetrics tracks counters and timings for the daily reminder sweep.
// All access goes through the mutex; sweeps and health probes touch it
// from different goroutines.
type SweepMetrics struct {
	mu                 sync.RWMutex
	sweepsCompleted    int64
	sweepPanics        int64
	sweepErrors        int64
	recordsEvaluated   int64
	remindersSent      int64
	sendFailures       int64
	recordsSkipped     int64
	lastSweepTime      time.Time
	lastSweepDuration  time.Duration
	totalSweepDuration time.Duration
}

// SweepMetricsSummary is the read-only snapshot handed to callers.
type SweepMetricsSummary struct {
	SweepsCompleted      int64     `json:"sweeps_completed"`
	SweepPanics          int64     `json:"sweep_panics"`
	SweepErrors          int64     `json:"sweep_errors"`
	RecordsEvaluated     int64     `json:"records_evaluated"`
	RemindersSent        int64     `json:"reminders_sent"`
	SendFailures         int64     `json:"send_failures"`
	RecordsSkipped       int64     `json:"records_skipped"`
	LastSweepTime        time.Time `json:"last_sweep_time"`
	LastSweepDuration    string    `json:"last_sweep_duration"`
	AverageSweepDuration string    `json:"average_sweep_duration"`
}

// HealthStatus summarizes sweep health for the health endpoint.
type HealthStatus struct {
	IsHealthy     bool      `json:"is_healthy"`
	LastSweepTime time.Time `json:"last_sweep_time"`
	SweepErrors   int64     `json:"sweep_errors"`
	SendFailures  int64     `json:"send_failures"`
	SweepPanics   int64     `json:"sweep_panics"`
}

// NewSweepMetrics creates a new metrics instance
func NewSweepMetrics() *SweepMetrics {
	return &SweepMetrics{}
}

// RecordSweepCompleted records the outcome of one full sweep run.
func (m *SweepMetrics) RecordSweepCompleted(evaluated, sent, failures, skipped int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepsCompleted++
	m.recordsEvaluated += int64(evaluated)
	m.remindersSent += int64(sent)
	m.sendFailures += int64(failures)
	m.recordsSkipped += int64(skipped)
	m.lastSweepTime = time.Now()
	m.lastSweepDuration = duration
	m.totalSweepDuration += duration
}

// RecordSweepError increments the error counter
func (m *SweepMetrics) RecordSweepError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepErrors++
}

// RecordSweepPanic counts a recovered panic inside a sweep run.
func (m *SweepMetrics) RecordSweepPanic() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepPanics++
}

// IsHealthy reports whether the sweep is in working order: either no
// sweep has run yet (fresh start) or the last one completed recently
// and deliveries are not failing wholesale.
func (m *SweepMetrics) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.isHealthyLocked()
}

// GetHealthStatus returns detailed health information
func (m *SweepMetrics) GetHealthStatus() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return HealthStatus{
		IsHealthy:     m.isHealthyLocked(),
		LastSweepTime: m.lastSweepTime,
		SweepErrors:   m.sweepErrors,
		SendFailures:  m.sendFailures,
		SweepPanics:   m.sweepPanics,
	}
}

// GetSummary returns a snapshot of all sweep metrics.
func (m *SweepMetrics) GetSummary() SweepMetricsSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	average := time.Duration(0)
	if m.sweepsCompleted > 0 {
		average = m.totalSweepDuration / time.Duration(m.sweepsCompleted)
	}

	return SweepMetricsSummary{
		SweepsCompleted:      m.sweepsCompleted,
		SweepPanics:          m.sweepPanics,
		SweepErrors:          m.sweepErrors,
		RecordsEvaluated:     m.recordsEvaluated,
		RemindersSent:        m.remindersSent,
		SendFailures:         m.sendFailures,
		RecordsSkipped:       m.recordsSkipped,
		LastSweepTime:        m.lastSweepTime,
		LastSweepDuration:    m.lastSweepDuration.String(),
		AverageSweepDuration: average.String(),
	}
}

// isHealthyLocked evaluates health under a lock already held by the caller.
func (m *SweepMetrics) isHealthyLocked() bool {
	recentSweep := m.lastSweepTime.IsZero() || time.Since(m.lastSweepTime) < staleSweepAge

	return recentSweep && m.failureRateLocked() < 0.5
}

// failureRateLocked computes the share of delivery attempts that failed.
func (m *SweepMetrics) failureRateLocked() float64 {
	attempts := m.remindersSent + m.sendFailures
	if attempts == 0 {
		return 0.0
	}
	return float64(m.sendFailures) / float64(attempts)
}

// Reset resets all metrics to zero
func (m *SweepMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepsCompleted = 0
	m.sweepPanics = 0
	m.sweepErrors = 0
	m.recordsEvaluated = 0
	m.remindersSent = 0
	m.sendFailures = 0
	m.recordsSkipped = 0
	m.lastSweepTime = time.Time{}
	m.lastSweepDuration = 0
	m.totalSweepDuration = 0
}
