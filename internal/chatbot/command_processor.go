package chatbot

import (
	"strings"

	"birthdaybot-api/internal/events"

	"go.uber.org/zap"
)

// Static reply texts. The command surface is small enough that the texts
// live next to the handlers that send them.
const (
	addUsageText = "Usage: /add Name Date\nExample: /add Masha 14.02"

	deleteUsageText = "Usage: /delete Name\nExample: /delete Masha"

	unknownCommandText = "Unknown command. Type /help for available commands."

	textMessageHintText = "I only understand commands. Type /help to see what I can do."

	genericErrorText = "Something went wrong. Please try again."
)

// HelpText returns the static help message shown for /start and /help.
func HelpText() string {
	return `🎂 I keep track of birthdays and remind you about them.

Commands:
• /add Name Date - add or update a birthday (example: /add Masha 14.02 or /add Masha 14.02.2004)
• /delete Name - remove a saved birthday (example: /delete Masha)
• /list - show everything saved
• /help - this message

Date formats: DD.MM, DD.MM.YYYY, YYYY-MM-DD ('-' and '/' work too)`
}

// CommandProcessor handles bot command processing. Commands that touch
// stored birthdays publish request events; the reply is produced by the
// response handler when the birthday service answers.
type CommandProcessor struct {
	eventBus events.EventBus
	logger   *zap.Logger
}

// NewCommandProcessor creates a new CommandProcessor instance
func NewCommandProcessor(eventBus events.EventBus, logger *zap.Logger) *CommandProcessor {
	return &CommandProcessor{
		eventBus: eventBus,
		logger:   logger,
	}
}

// ProcessStartCommand handles the /start command
func (cp *CommandProcessor) ProcessStartCommand(userID, chatID string) (string, error) {
	cp.logger.Info("Processing start command",
		zap.String("user_id", userID),
		zap.String("chat_id", chatID))

	return HelpText(), nil
}

// ProcessHelpCommand handles the /help command
func (cp *CommandProcessor) ProcessHelpCommand(userID, chatID string) (string, error) {
	cp.logger.Info("Processing help command",
		zap.String("user_id", userID),
		zap.String("chat_id", chatID))

	return HelpText(), nil
}

// ProcessAddCommand handles the /add command. The last whitespace field of
// the argument text is the date, everything before it is the name, so
// multi-word names need no quoting. Returns a usage reply on wrong arity
// and an empty reply when the request event was published (the actual
// reply is sent when the response event arrives).
func (cp *CommandProcessor) ProcessAddCommand(userID, chatID, argText string) (string, error) {
	cp.logger.Info("Processing add command",
		zap.String("user_id", userID),
		zap.String("chat_id", chatID))

	fields := strings.Fields(argText)
	if len(fields) < 2 {
		return addUsageText, nil
	}

	name := strings.Join(fields[:len(fields)-1], " ")
	dateText := fields[len(fields)-1]

	event := events.BirthdayUpsertRequested{
		Event:    events.NewEvent(),
		UserID:   userID,
		ChatID:   chatID,
		Name:     name,
		DateText: dateText,
	}

	if err := cp.eventBus.Publish(events.TopicBirthdayUpsertRequested, event); err != nil {
		return "", CommandProcessingError{
			Command: string(CommandAdd),
			Reason:  "failed to publish upsert request",
			UserID:  userID,
			ChatID:  chatID,
			Cause:   err,
		}
	}

	return "", nil
}

// ProcessDeleteCommand handles the /delete command. The whole argument text
// is the name; matching is case-insensitive in the store.
func (cp *CommandProcessor) ProcessDeleteCommand(userID, chatID, argText string) (string, error) {
	cp.logger.Info("Processing delete command",
		zap.String("user_id", userID),
		zap.String("chat_id", chatID))

	fields := strings.Fields(argText)
	if len(fields) == 0 {
		return deleteUsageText, nil
	}

	name := strings.Join(fields, " ")

	event := events.BirthdayDeleteRequested{
		Event:  events.NewEvent(),
		UserID: userID,
		ChatID: chatID,
		Name:   name,
	}

	if err := cp.eventBus.Publish(events.TopicBirthdayDeleteRequested, event); err != nil {
		return "", CommandProcessingError{
			Command: string(CommandDelete),
			Reason:  "failed to publish delete request",
			UserID:  userID,
			ChatID:  chatID,
			Cause:   err,
		}
	}

	return "", nil
}

// ProcessListCommand handles the /list command. The reply is always sent by
// the list response handler.
func (cp *CommandProcessor) ProcessListCommand(userID, chatID string) error {
	cp.logger.Info("Processing list command",
		zap.String("user_id", userID),
		zap.String("chat_id", chatID))

	event := events.BirthdayListRequested{
		Event:  events.NewEvent(),
		UserID: userID,
		ChatID: chatID,
	}

	if err := cp.eventBus.Publish(events.TopicBirthdayListRequested, event); err != nil {
		return CommandProcessingError{
			Command: string(CommandList),
			Reason:  "failed to publish list request",
			UserID:  userID,
			ChatID:  chatID,
			Cause:   err,
		}
	}

	return nil
}
