package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"birthdaybot-api/internal/birthday"
	"birthdaybot-api/internal/common"
	"birthdaybot-api/internal/config"
	"birthdaybot-api/internal/events"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderScheduler runs the daily birthday sweep at the configured
// wall-clock time.
type ReminderScheduler interface {
	Start() error
	Stop() error
	IsRunning() bool
	GetMetrics() SweepMetricsSummary
	HealthStatus() HealthStatus
}

// reminderScheduler implements the ReminderScheduler interface
type reminderScheduler struct {
	config    config.SchedulerConfig
	repo      birthday.BirthdayRepository
	messenger birthday.ReminderMessenger
	eventBus  events.EventBus
	clock     common.Clock
	logger    *zap.Logger
	metrics   *SweepMetrics

	location *time.Location
	cronSpec string

	cron    *cron.Cron
	entryID cron.EntryID
	running atomic.Bool

	// sweepMu serializes sweep runs; a slow sweep must not overlap the
	// next cron firing or a catch-up run.
	sweepMu sync.Mutex

	// catchupWG tracks the sweep_on_start goroutine, which runs outside
	// the cron runner and so is not covered by cron.Stop.
	catchupWG sync.WaitGroup
}

// NewReminderScheduler validates the sweep configuration and creates a
// scheduler instance. The sweep fires daily at SweepTime in Timezone.
func NewReminderScheduler(cfg config.SchedulerConfig, repo birthday.BirthdayRepository, messenger birthday.ReminderMessenger, eventBus events.EventBus, clock common.Clock, logger *zap.Logger) (ReminderScheduler, error) {
	hour, minute, err := parseSweepTime(cfg.SweepTime)
	if err != nil {
		return nil, NewConfigurationError("sweep_time", cfg.SweepTime, "must be a wall-clock time in HH:MM form")
	}
	if cfg.LookaheadDays < 0 {
		return nil, NewConfigurationError("lookahead_days", cfg.LookaheadDays, "must not be negative")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, NewConfigurationError("shutdown_timeout", cfg.ShutdownTimeout, "must be greater than 0")
	}

	location := time.Local
	if cfg.Timezone != "" {
		location, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, NewConfigurationError("timezone", cfg.Timezone, "must name a resolvable IANA timezone")
		}
	}

	return &reminderScheduler{
		config:    cfg,
		repo:      repo,
		messenger: messenger,
		eventBus:  eventBus,
		clock:     clock,
		logger:    logger,
		metrics:   NewSweepMetrics(),
		location:  location,
		cronSpec:  fmt.Sprintf("%d %d * * *", minute, hour),
	}, nil
}

// Start registers the daily cron entry and begins scheduling. With
// sweep_on_start enabled it also runs one catch-up sweep immediately,
// so reminders missed during downtime go out without waiting a day.
func (s *reminderScheduler) Start() error {
	if s.running.Load() {
		return NewSchedulerError(ErrSchedulerAlreadyRunning, "scheduler is already running")
	}

	s.cron = cron.New(cron.WithLocation(s.location))
	entryID, err := s.cron.AddFunc(s.cronSpec, s.runSweep)
	if err != nil {
		return NewConfigurationError("sweep_time", s.cronSpec, fmt.Sprintf("cron rejected the derived schedule: %v", err))
	}
	s.entryID = entryID

	s.cron.Start()
	s.running.Store(true)

	s.logger.Info("Reminder scheduler started",
		zap.String("sweep_time", s.config.SweepTime),
		zap.String("timezone", s.location.String()),
		zap.Int("lookahead_days", s.config.LookaheadDays),
		zap.Time("next_sweep", s.cron.Entry(s.entryID).Next))

	if s.config.SweepOnStart {
		s.logger.Info("Running catch-up sweep on start")
		s.catchupWG.Add(1)
		go func() {
			defer s.catchupWG.Done()
			s.runSweep()
		}()
	}

	return nil
}

// Stop halts scheduling and waits for an in-flight sweep to finish,
// bounded by the configured shutdown timeout.
func (s *reminderScheduler) Stop() error {
	if !s.running.Load() {
		return NewSchedulerError(ErrSchedulerNotRunning, "scheduler is not running")
	}

	s.logger.Info("Stopping reminder scheduler...")

	stopCtx := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-stopCtx.Done()
		s.catchupWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Reminder scheduler stopped")
	case <-time.After(time.Duration(s.config.ShutdownTimeout) * time.Second):
		s.running.Store(false)
		s.logger.Warn("Scheduler shutdown timed out, a sweep may still be running")
		return NewShutdownError("shutdown timeout exceeded", s.config.ShutdownTimeout)
	}

	s.running.Store(false)
	return nil
}

// IsRunning returns true if the scheduler is currently running
func (s *reminderScheduler) IsRunning() bool {
	return s.running.Load()
}

// GetMetrics returns a snapshot of the sweep metrics.
func (s *reminderScheduler) GetMetrics() SweepMetricsSummary {
	return s.metrics.GetSummary()
}

// HealthStatus reports sweep health for the health endpoint.
func (s *reminderScheduler) HealthStatus() HealthStatus {
	return s.metrics.GetHealthStatus()
}

// runSweep is the cron entry point: one sweep at a time, panics
// recovered so a bad run never kills the cron goroutine.
func (s *reminderScheduler) runSweep() {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.metrics.RecordSweepPanic()
			s.logger.Error("Reminder sweep panicked",
				zap.Any("panic", r))
		}
	}()

	s.sweep()
}

// parseSweepTime splits an "HH:MM" wall-clock value into its components.
func parseSweepTime(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
