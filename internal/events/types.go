package events

import (
	"time"

	"github.com/google/uuid"
)

// Event represents the base event structure with common fields
type Event struct {
	CorrelationID string    `json:"correlation_id" validate:"required"`
	Timestamp     time.Time `json:"timestamp" validate:"required"`
}

// NewEvent creates a new base event with generated correlation ID
func NewEvent() Event {
	return Event{
		CorrelationID: uuid.New().String(),
		Timestamp:     time.Now(),
	}
}

// MessageReceived represents an event when a message is received from a user
type MessageReceived struct {
	Event
	UserID      string `json:"user_id" validate:"required"`
	ChatID      string `json:"chat_id" validate:"required"`
	MessageText string `json:"message_text" validate:"required"`
}

// BirthdayUpsertRequested asks the birthday service to save a birthday for
// a chat. DateText is the raw user input; parsing and validation happen in
// the birthday service so every caller gets the same rules.
type BirthdayUpsertRequested struct {
	Event
	UserID   string `json:"user_id" validate:"required"`
	ChatID   string `json:"chat_id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	DateText string `json:"date_text" validate:"required"`
}

// BirthdayUpsertResponse reports the outcome of an upsert request.
// Created is true for a new record and false when an existing record
// for the same name was overwritten.
type BirthdayUpsertResponse struct {
	Event
	UserID    string `json:"user_id" validate:"required"`
	ChatID    string `json:"chat_id" validate:"required"`
	Name      string `json:"name"`
	Day       int    `json:"day"`
	Month     int    `json:"month"`
	Year      *int   `json:"year,omitempty"`
	Created   bool   `json:"created"`
	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code,omitempty"`
}

// BirthdayDeleteRequested asks the birthday service to remove a birthday
// by name. Name matching is case-insensitive.
type BirthdayDeleteRequested struct {
	Event
	UserID string `json:"user_id" validate:"required"`
	ChatID string `json:"chat_id" validate:"required"`
	Name   string `json:"name" validate:"required"`
}

// BirthdayDeleteResponse reports the outcome of a delete request.
// Deleted is false when no record matched the name.
type BirthdayDeleteResponse struct {
	Event
	UserID    string `json:"user_id" validate:"required"`
	ChatID    string `json:"chat_id" validate:"required"`
	Name      string `json:"name"`
	Deleted   bool   `json:"deleted"`
	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code,omitempty"`
}

// BirthdayListRequested asks the birthday service for all birthdays
// stored for a chat.
type BirthdayListRequested struct {
	Event
	UserID string `json:"user_id" validate:"required"`
	ChatID string `json:"chat_id" validate:"required"`
}

// BirthdaySummary is the list representation of a stored birthday.
// DaysUntil counts from today to the next occurrence, zero on the day.
type BirthdaySummary struct {
	Name      string `json:"name"`
	Day       int    `json:"day"`
	Month     int    `json:"month"`
	Year      *int   `json:"year,omitempty"`
	DaysUntil int    `json:"days_until"`
}

// BirthdayListResponse carries the ordered birthday list for a chat.
// Birthdays are sorted by month, day, then name.
type BirthdayListResponse struct {
	Event
	UserID     string            `json:"user_id" validate:"required"`
	ChatID     string            `json:"chat_id" validate:"required"`
	Birthdays  []BirthdaySummary `json:"birthdays"`
	TotalCount int               `json:"total_count"`
	Success    bool              `json:"success"`
	ErrorCode  string            `json:"error_code,omitempty"`
}

// ReminderSent is published after a reminder message was delivered and
// the record was marked notified for the occurrence year.
type ReminderSent struct {
	Event
	RecordID       string `json:"record_id" validate:"required"`
	ChatID         string `json:"chat_id" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Day            int    `json:"day"`
	Month          int    `json:"month"`
	DaysUntil      int    `json:"days_until"`
	OccurrenceYear int    `json:"occurrence_year"`
}

// CommandExecuted is published after the chatbot finished handling a
// command, successfully or not.
type CommandExecuted struct {
	Event
	UserID  string `json:"user_id" validate:"required"`
	ChatID  string `json:"chat_id" validate:"required"`
	Command string `json:"command" validate:"required"`
	Success bool   `json:"success"`
}

// Event topics constants
const (
	TopicMessageReceived         = "message.received"
	TopicBirthdayUpsertRequested = "birthday.upsert.requested"
	TopicBirthdayUpsertResponse  = "birthday.upsert.response"
	TopicBirthdayDeleteRequested = "birthday.delete.requested"
	TopicBirthdayDeleteResponse  = "birthday.delete.response"
	TopicBirthdayListRequested   = "birthday.list.requested"
	TopicBirthdayListResponse    = "birthday.list.response"
	TopicReminderSent            = "reminder.sent"
	TopicCommandExecuted         = "command.executed"
)
