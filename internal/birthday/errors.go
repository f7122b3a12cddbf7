package birthday

import (
	"errors"
	"fmt"

	"birthdaybot-api/internal/common"
)

// Error codes for the birthday module
const (
	ErrCodeRecordNotFound   = "RECORD_NOT_FOUND"
	ErrCodeInvalidDate      = "INVALID_DATE_FORMAT"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeRepository       = "REPOSITORY_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrInvalidDateFormat is the sentinel that every unparseable date
// input resolves to; callers branch with errors.Is.
var ErrInvalidDateFormat = errors.New("invalid date format")

// BirthdayError interface for birthday-specific errors
type BirthdayError interface {
	error
	Code() string
	Message() string
	Temporary() bool
}

// DateFormatError reports user input that matched no accepted date form
// or named an impossible calendar day.
type DateFormatError struct {
	Input string
}

func (e DateFormatError) Error() string {
	return fmt.Sprintf("cannot parse '%s' as a birthday date", e.Input)
}

func (e DateFormatError) Code() string {
	return ErrCodeInvalidDate
}

func (e DateFormatError) Message() string {
	return "date must look like DD.MM, DD.MM.YYYY or YYYY-MM-DD"
}

func (e DateFormatError) Temporary() bool {
	return false
}

func (e DateFormatError) Unwrap() error {
	return ErrInvalidDateFormat
}

// RecordValidationError represents validation failures for birthday records
type RecordValidationError struct {
	Field      string
	Value      interface{}
	ErrMessage string
}

func (e RecordValidationError) Error() string {
	return fmt.Sprintf("birthday record validation failed for field '%s': %s (value: %v)", e.Field, e.ErrMessage, e.Value)
}

func (e RecordValidationError) Code() string {
	return ErrCodeValidationFailed
}

func (e RecordValidationError) Message() string {
	return e.ErrMessage
}

func (e RecordValidationError) Temporary() bool {
	return false
}

// RepositoryError represents database operation failures
type RepositoryError struct {
	Operation string
	Details   string
	Cause     error
}

func (e RepositoryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("repository error during %s: %s (caused by: %v)", e.Operation, e.Details, e.Cause)
	}
	return fmt.Sprintf("repository error during %s: %s", e.Operation, e.Details)
}

func (e RepositoryError) Code() string {
	return ErrCodeRepository
}

func (e RepositoryError) Message() string {
	return e.Details
}

func (e RepositoryError) Temporary() bool {
	return true // Database errors can often be retried
}

func (e RepositoryError) Unwrap() error {
	return e.Cause
}

// Error wrapping utilities

// WrapRepositoryError wraps an error as a RepositoryError
func WrapRepositoryError(err error, operation string) error {
	if err == nil {
		return nil
	}
	return RepositoryError{
		Operation: operation,
		Details:   "database operation failed",
		Cause:     err,
	}
}

// NewDateFormatError creates a new DateFormatError
func NewDateFormatError(input string) error {
	return DateFormatError{
		Input: input,
	}
}

// NewRecordValidationError creates a new RecordValidationError
func NewRecordValidationError(field string, value interface{}, message string) error {
	return RecordValidationError{
		Field:      field,
		Value:      value,
		ErrMessage: message,
	}
}

// Error classification helpers

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	if bdayErr, ok := err.(BirthdayError); ok {
		return bdayErr.Code() == ErrCodeRecordNotFound
	}
	var notFound common.NotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	return errors.Is(err, ErrRecordNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	if bdayErr, ok := err.(BirthdayError); ok {
		return bdayErr.Code() == ErrCodeValidationFailed
	}
	var validation common.ValidationError
	return errors.As(err, &validation)
}

// IsDateFormatError checks if the error came from date parsing
func IsDateFormatError(err error) bool {
	return errors.Is(err, ErrInvalidDateFormat)
}

// IsTemporaryError checks if the error is temporary and can be retried
func IsTemporaryError(err error) bool {
	if bdayErr, ok := err.(BirthdayError); ok {
		return bdayErr.Temporary()
	}
	return false
}

// IsRepositoryError checks if the error is a repository error
func IsRepositoryError(err error) bool {
	if bdayErr, ok := err.(BirthdayError); ok {
		return bdayErr.Code() == ErrCodeRepository
	}
	return false
}
