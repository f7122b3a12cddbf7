package scheduler

import (
	"fmt"
)

// SchedulerError defines the interface for scheduler-specific errors
type SchedulerError interface {
	error
	Code() string
	Message() string
	Temporary() bool
}

// schedulerError implements the SchedulerError interface
type schedulerError struct {
	code      string
	message   string
	temporary bool
}

func (e *schedulerError) Error() string {
	return fmt.Sprintf("scheduler error [%s]: %s", e.code, e.message)
}

func (e *schedulerError) Code() string {
	return e.code
}

func (e *schedulerError) Message() string {
	return e.message
}

func (e *schedulerError) Temporary() bool {
	return e.temporary
}

// Error constants
const (
	ErrSchedulerNotRunning     = "scheduler_not_running"
	ErrSchedulerAlreadyRunning = "scheduler_already_running"
	ErrInvalidConfiguration    = "invalid_configuration"
	ErrSweepFailed             = "sweep_failed"
	ErrShutdownTimeout         = "shutdown_timeout"
)

// SweepError marks a repository failure inside the reminder sweep. The
// sweep isolates these per owner: one failing owner never aborts the run.
type SweepError struct {
	schedulerError
	OwnerID   string
	Operation string
}

// ShutdownError reports that running sweeps did not drain before the
// configured shutdown timeout.
type ShutdownError struct {
	schedulerError
	TimeoutSeconds int
}

// ConfigurationError reports an invalid scheduler configuration value.
type ConfigurationError struct {
	schedulerError
	Field string
	Value interface{}
}

// Constructor functions
func NewSchedulerError(code, message string) error {
	return &schedulerError{
		code:      code,
		message:   message,
		temporary: false,
	}
}

func NewSweepError(ownerID, operation string, err error) error {
	return &SweepError{
		schedulerError: schedulerError{
			code:      ErrSweepFailed,
			message:   fmt.Sprintf("sweep failed for owner %s during %s: %v", ownerID, operation, err),
			temporary: true,
		},
		OwnerID:   ownerID,
		Operation: operation,
	}
}

func NewShutdownError(message string, timeoutSeconds int) error {
	return &ShutdownError{
		schedulerError: schedulerError{
			code:      ErrShutdownTimeout,
			message:   message,
			temporary: false,
		},
		TimeoutSeconds: timeoutSeconds,
	}
}

func NewConfigurationError(field string, value interface{}, message string) error {
	return &ConfigurationError{
		schedulerError: schedulerError{
			code:      ErrInvalidConfiguration,
			message:   fmt.Sprintf("invalid configuration for field %s (value: %v): %s", field, value, message),
			temporary: false,
		},
		Field: field,
		Value: value,
	}
}

// Error classification helpers
func IsTemporaryError(err error) bool {
	if schedErr, ok := err.(SchedulerError); ok {
		return schedErr.Temporary()
	}
	return false
}

func IsConfigurationError(err error) bool {
	if schedErr, ok := err.(SchedulerError); ok {
		return schedErr.Code() == ErrInvalidConfiguration
	}
	return false
}

func IsSweepError(err error) bool {
	if schedErr, ok := err.(SchedulerError); ok {
		return schedErr.Code() == ErrSweepFailed
	}
	return false
}
