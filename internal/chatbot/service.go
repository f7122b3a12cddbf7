package chatbot

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"

	"birthdaybot-api/internal/birthday"
	"birthdaybot-api/internal/common"
	"birthdaybot-api/internal/config"
	"birthdaybot-api/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Reply texts for the response handlers. User-supplied names are
// HTML-escaped before interpolation because messages go out with HTML
// parse mode.
const (
	dateFormatHintText = "I couldn't understand that date 😿\nFormats: DD.MM, DD.MM.YYYY, YYYY-MM-DD\nExample: /add Masha 14.02"

	emptyNameText = "The name must not be empty."

	emptyListText = "Nothing saved yet. Add one: /add Name Date"
)

// ChatbotService defines the interface for chatbot operations. It doubles
// as the reminder messenger so the scheduler can deliver sweep results
// through the same transport as command replies.
type ChatbotService interface {
	birthday.ReminderMessenger

	SendMessage(chatID common.ChatID, text string) error
	HandleWebhook(webhookData []byte) error
	StartPolling() error
	StopPolling()
}

// chatbotService implements the ChatbotService interface
type chatbotService struct {
	eventBus         events.EventBus
	logger           *zap.Logger
	provider         TelegramProvider
	parser           *WebhookParser
	commandProcessor *CommandProcessor
	config           config.TelegramConfig

	pollMu  sync.Mutex
	polling bool
	pollWG  sync.WaitGroup
}

// NewChatbotService creates a new instance of ChatbotService backed by the
// real Telegram API.
func NewChatbotService(eventBus events.EventBus, logger *zap.Logger, cfg config.TelegramConfig) (ChatbotService, error) {
	provider, err := NewTelegramProvider(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram provider: %w", err)
	}

	return NewChatbotServiceWithProvider(eventBus, logger, provider, cfg)
}

// NewChatbotServiceWithProvider creates a ChatbotService on top of an
// existing provider. Tests and integration setups inject recording
// providers here.
func NewChatbotServiceWithProvider(eventBus events.EventBus, logger *zap.Logger, provider TelegramProvider, cfg config.TelegramConfig) (ChatbotService, error) {
	service := &chatbotService{
		eventBus:         eventBus,
		logger:           logger,
		provider:         provider,
		parser:           NewWebhookParser(),
		commandProcessor: NewCommandProcessor(eventBus, logger),
		config:           cfg,
	}

	// Subscribe to relevant events
	service.setupEventSubscriptions()

	if cfg.Mode == config.TelegramModeWebhook {
		if cfg.WebhookURL == "" {
			return nil, NewConfigurationError("webhook_url", "webhook mode requires a public webhook URL", "")
		}
		if err := provider.SetWebhook(cfg.WebhookURL); err != nil {
			logger.Warn("Failed to set webhook", zap.Error(err))
		}
	}

	return service, nil
}

// setupEventSubscriptions sets up event subscriptions for the chatbot service
func (s *chatbotService) setupEventSubscriptions() {
	// Subscribe to BirthdayUpsertResponse events from the birthday service
	err := s.eventBus.Subscribe(events.TopicBirthdayUpsertResponse, s.handleUpsertResponse)
	if err != nil {
		s.logger.Error("Failed to subscribe to BirthdayUpsertResponse events", zap.Error(err))
	}

	// Subscribe to BirthdayDeleteResponse events from the birthday service
	err = s.eventBus.Subscribe(events.TopicBirthdayDeleteResponse, s.handleDeleteResponse)
	if err != nil {
		s.logger.Error("Failed to subscribe to BirthdayDeleteResponse events", zap.Error(err))
	}

	// Subscribe to BirthdayListResponse events from the birthday service
	err = s.eventBus.Subscribe(events.TopicBirthdayListResponse, s.handleListResponse)
	if err != nil {
		s.logger.Error("Failed to subscribe to BirthdayListResponse events", zap.Error(err))
	}
}

// SendMessage sends a text message to the specified chat
func (s *chatbotService) SendMessage(chatID common.ChatID, text string) error {
	s.logger.Debug("Sending message",
		zap.String("chat_id", string(chatID)),
		zap.Int("text_length", len(text)))

	chatIDInt, err := strconv.ParseInt(string(chatID), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID: %w", err)
	}

	return s.provider.SendMessage(chatIDInt, text)
}

// SendReminder delivers a birthday reminder produced by the daily sweep.
func (s *chatbotService) SendReminder(reminder birthday.DueReminder) error {
	s.logger.Debug("Sending reminder",
		zap.String("chat_id", string(reminder.ChatID)),
		zap.String("record_id", string(reminder.RecordID)),
		zap.Int("days_left", reminder.DaysLeft))

	return s.SendMessage(reminder.ChatID, formatReminderText(reminder))
}

// HandleWebhook processes incoming webhook data from Telegram
func (s *chatbotService) HandleWebhook(webhookData []byte) error {
	s.logger.Debug("Handling webhook", zap.Int("data_size", len(webhookData)))

	update, err := s.parser.ParseUpdate(webhookData)
	if err != nil {
		s.logger.Error("Failed to parse webhook update", zap.Error(err))
		return WrapParsingError(err, "telegram_update")
	}

	return s.handleUpdate(update)
}

// StartPolling launches the long polling intake loop. It is a no-op when
// polling is already running.
func (s *chatbotService) StartPolling() error {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	if s.polling {
		return nil
	}

	// An active webhook registration blocks getUpdates calls.
	if err := s.provider.DeleteWebhook(); err != nil {
		s.logger.Warn("Failed to delete webhook before polling", zap.Error(err))
	}

	updates := s.provider.GetUpdatesChan(s.config.PollTimeout)
	s.polling = true
	s.pollWG.Add(1)

	go func() {
		defer s.pollWG.Done()
		for update := range updates {
			if err := s.handleUpdate(&update); err != nil {
				s.logger.Error("Failed to handle polled update",
					zap.Int("update_id", update.UpdateID),
					zap.Error(err))
			}
		}
		s.logger.Info("Polling loop stopped")
	}()

	s.logger.Info("Polling started", zap.Int("poll_timeout", s.config.PollTimeout))
	return nil
}

// StopPolling stops the polling loop and waits for in-flight updates to
// finish.
func (s *chatbotService) StopPolling() {
	s.pollMu.Lock()
	if !s.polling {
		s.pollMu.Unlock()
		return
	}
	s.polling = false
	s.pollMu.Unlock()

	s.provider.StopPolling()
	s.pollWG.Wait()
}

// handleUpdate routes a single Telegram update. Both intake paths (webhook
// and polling) end up here.
func (s *chatbotService) handleUpdate(update *tgbotapi.Update) error {
	if update.Message == nil {
		// Edited messages, channel posts and other non-message updates
		// carry nothing to answer.
		s.logger.Debug("Ignoring update without message", zap.Int("update_id", update.UpdateID))
		return nil
	}

	correlationID := s.parser.BuildCorrelationID(update)

	userID, err := s.parser.GetUserID(update)
	if err != nil {
		s.logger.Error("Failed to extract user ID",
			zap.String("correlation_id", correlationID),
			zap.Error(err))
		return WrapParsingError(err, "user_id")
	}

	chatID, err := s.parser.GetChatID(update)
	if err != nil {
		s.logger.Error("Failed to extract chat ID",
			zap.String("correlation_id", correlationID),
			zap.Error(err))
		return WrapParsingError(err, "chat_id")
	}

	if update.Message.IsCommand() {
		return s.handleCommand(update.Message, string(userID), string(chatID), correlationID)
	}

	return s.handleTextMessage(update, string(userID), string(chatID), correlationID)
}

// handleCommand processes bot commands. Commands answered by the birthday
// service return an empty immediate response; their reply is sent by the
// matching response handler so every command still yields exactly one
// message.
func (s *chatbotService) handleCommand(msg *tgbotapi.Message, userID, chatID, correlationID string) error {
	command := ParseCommand(msg.Command())
	argText := msg.CommandArguments()

	s.logger.Info("Processing command",
		zap.String("correlation_id", correlationID),
		zap.String("command", msg.Command()),
		zap.String("user_id", userID),
		zap.String("chat_id", chatID))

	var response string
	var err error

	switch command {
	case CommandStart:
		response, err = s.commandProcessor.ProcessStartCommand(userID, chatID)
	case CommandHelp:
		response, err = s.commandProcessor.ProcessHelpCommand(userID, chatID)
	case CommandAdd:
		response, err = s.commandProcessor.ProcessAddCommand(userID, chatID, argText)
	case CommandDelete:
		response, err = s.commandProcessor.ProcessDeleteCommand(userID, chatID, argText)
	case CommandList:
		err = s.commandProcessor.ProcessListCommand(userID, chatID)
	case CommandUnknown:
		response = unknownCommandText
	}

	if command.IsValid() {
		s.publishCommandExecuted(userID, chatID, command, err == nil)
	}

	if err != nil {
		s.logger.Error("Command processing failed",
			zap.String("correlation_id", correlationID),
			zap.String("command", string(command)),
			zap.Error(err))
		response = genericErrorText
	}

	if response == "" {
		return nil
	}

	return s.SendMessage(common.ChatID(chatID), response)
}

// handleTextMessage processes regular text messages
func (s *chatbotService) handleTextMessage(update *tgbotapi.Update, userID, chatID, correlationID string) error {
	message, err := s.parser.ExtractMessage(update)
	if err != nil {
		s.logger.Error("Failed to extract message",
			zap.String("correlation_id", correlationID),
			zap.Error(err))
		return WrapParsingError(err, "message")
	}

	if message.Text == "" {
		// Stickers and other media without a caption carry no text to
		// act on.
		s.logger.Debug("Ignoring non-text message",
			zap.String("correlation_id", correlationID))
		return nil
	}

	s.logger.Info("Processing text message",
		zap.String("correlation_id", correlationID),
		zap.String("user_id", userID),
		zap.String("chat_id", chatID),
		zap.Int("text_length", len(message.Text)))

	messageEvent := events.MessageReceived{
		Event:       events.NewEvent(),
		UserID:      userID,
		ChatID:      chatID,
		MessageText: message.Text,
	}
	if err := s.eventBus.Publish(events.TopicMessageReceived, messageEvent); err != nil {
		s.logger.Warn("Failed to publish message received event", zap.Error(err))
	}

	return s.SendMessage(common.ChatID(chatID), textMessageHintText)
}

// publishCommandExecuted reports command outcomes on the bus for
// observability; delivery problems must not affect the user reply.
func (s *chatbotService) publishCommandExecuted(userID, chatID string, command Command, success bool) {
	event := events.CommandExecuted{
		Event:   events.NewEvent(),
		UserID:  userID,
		ChatID:  chatID,
		Command: string(command),
		Success: success,
	}

	if err := s.eventBus.Publish(events.TopicCommandExecuted, event); err != nil {
		s.logger.Warn("Failed to publish command executed event", zap.Error(err))
	}
}

// handleUpsertResponse handles BirthdayUpsertResponse events from the birthday service
func (s *chatbotService) handleUpsertResponse(event events.BirthdayUpsertResponse) {
	s.logger.Info("Handling birthday upsert response",
		zap.String("correlation_id", event.CorrelationID),
		zap.String("chat_id", event.ChatID),
		zap.Bool("success", event.Success),
		zap.Bool("created", event.Created),
		zap.String("error_code", event.ErrorCode))

	if err := s.SendMessage(common.ChatID(event.ChatID), formatUpsertReply(event)); err != nil {
		s.logger.Error("Failed to send upsert reply",
			zap.String("correlation_id", event.CorrelationID),
			zap.Error(err))
	}
}

// handleDeleteResponse handles BirthdayDeleteResponse events from the birthday service
func (s *chatbotService) handleDeleteResponse(event events.BirthdayDeleteResponse) {
	s.logger.Info("Handling birthday delete response",
		zap.String("correlation_id", event.CorrelationID),
		zap.String("chat_id", event.ChatID),
		zap.Bool("success", event.Success),
		zap.Bool("deleted", event.Deleted))

	if err := s.SendMessage(common.ChatID(event.ChatID), formatDeleteReply(event)); err != nil {
		s.logger.Error("Failed to send delete reply",
			zap.String("correlation_id", event.CorrelationID),
			zap.Error(err))
	}
}

// handleListResponse handles BirthdayListResponse events from the birthday service
func (s *chatbotService) handleListResponse(event events.BirthdayListResponse) {
	s.logger.Info("Handling birthday list response",
		zap.String("correlation_id", event.CorrelationID),
		zap.String("chat_id", event.ChatID),
		zap.Int("birthday_count", len(event.Birthdays)),
		zap.Bool("success", event.Success))

	if err := s.SendMessage(common.ChatID(event.ChatID), formatListReply(event)); err != nil {
		s.logger.Error("Failed to send list reply",
			zap.String("correlation_id", event.CorrelationID),
			zap.Error(err))
	}
}

// formatUpsertReply builds the user reply for an upsert outcome.
func formatUpsertReply(event events.BirthdayUpsertResponse) string {
	if !event.Success {
		switch event.ErrorCode {
		case birthday.ErrCodeInvalidDate:
			return dateFormatHintText
		case birthday.ErrCodeValidationFailed:
			return emptyNameText
		default:
			return genericErrorText
		}
	}

	date := birthday.Date{Day: event.Day, Month: event.Month, Year: event.Year}
	return fmt.Sprintf("✅ Saved: %s — %s", html.EscapeString(event.Name), date)
}

// formatDeleteReply builds the user reply for a delete outcome. A missing
// name is a normal answer, not an error.
func formatDeleteReply(event events.BirthdayDeleteResponse) string {
	if !event.Success {
		return genericErrorText
	}

	if !event.Deleted {
		return fmt.Sprintf("Couldn't find \"%s\". Check the name or see /list.", html.EscapeString(event.Name))
	}

	return fmt.Sprintf("🗑️ Deleted: %s", html.EscapeString(event.Name))
}

// formatListReply builds the ordered birthday list with the
// nearest-upcoming footer.
func formatListReply(event events.BirthdayListResponse) string {
	if !event.Success {
		return genericErrorText
	}

	if len(event.Birthdays) == 0 {
		return emptyListText
	}

	var b strings.Builder
	b.WriteString("🎂 Your birthdays:\n")

	for _, entry := range event.Birthdays {
		date := birthday.Date{Day: entry.Day, Month: entry.Month, Year: entry.Year}
		fmt.Fprintf(&b, "\n• %s: %s", html.EscapeString(entry.Name), date)
	}

	nearest := event.Birthdays[0]
	for _, entry := range event.Birthdays[1:] {
		if entry.DaysUntil < nearest.DaysUntil {
			nearest = entry
		}
	}

	b.WriteString("\n\n")
	b.WriteString(formatNearestFooter(nearest))

	return b.String()
}

// formatNearestFooter names the next upcoming birthday in the list reply.
func formatNearestFooter(entry events.BirthdaySummary) string {
	name := html.EscapeString(entry.Name)
	occurrence := fmt.Sprintf("%02d.%02d", entry.Day, entry.Month)

	switch {
	case entry.DaysUntil == 0:
		return fmt.Sprintf("🔥 Next up: %s today (%s)", name, occurrence)
	case entry.DaysUntil == 1:
		return fmt.Sprintf("✨ Next up: %s tomorrow (%s)", name, occurrence)
	default:
		return fmt.Sprintf("✨ Next up: %s in %d days (%s)", name, entry.DaysUntil, occurrence)
	}
}

// formatReminderText builds the reminder message for a due record.
func formatReminderText(reminder birthday.DueReminder) string {
	name := html.EscapeString(reminder.Name)
	occurrence := fmt.Sprintf("%02d.%02d", reminder.Occurrence.Day(), int(reminder.Occurrence.Month()))

	switch {
	case reminder.DaysLeft <= 0:
		return fmt.Sprintf("Today is <b>%s</b>'s birthday! 🎂", name)
	case reminder.DaysLeft == 1:
		return fmt.Sprintf("Tomorrow is <b>%s</b>'s birthday (%s)! 🎉", name, occurrence)
	default:
		return fmt.Sprintf("<b>%s</b>'s birthday is in %d days (%s) 🎈", name, reminder.DaysLeft, occurrence)
	}
}
