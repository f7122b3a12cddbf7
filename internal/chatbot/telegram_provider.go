package chatbot

import (
	"errors"
	"fmt"
	"time"

	"birthdaybot-api/internal/config"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// telegramProvider implements the TelegramProvider interface using the telegram-bot-api library
type telegramProvider struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
	config config.TelegramConfig
}

// NewTelegramProvider creates a new TelegramProvider instance
func NewTelegramProvider(config config.TelegramConfig, logger *zap.Logger) (TelegramProvider, error) {
	if config.Token == "" {
		return nil, NewConfigurationError("token", "telegram bot token is required", "")
	}

	bot, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	// Validate bot by getting bot info
	_, err = bot.GetMe()
	if err != nil {
		return nil, fmt.Errorf("failed to validate bot token: %w", err)
	}

	logger.Info("Telegram bot initialized successfully", zap.String("username", bot.Self.UserName))

	return &telegramProvider{
		bot:    bot,
		logger: logger,
		config: config,
	}, nil
}

// SendMessage sends an HTML-formatted text message to the specified chat.
// Transient Telegram failures (rate limits, 5xx, network) are retried with
// exponential backoff; permanent failures (blocked bot, bad chat id) are
// surfaced immediately.
func (p *telegramProvider) SendMessage(chatID int64, text string) error {
	correlationID := fmt.Sprintf("msg_%d_%d", chatID, time.Now().Unix())

	p.logger.Debug("Sending message",
		zap.String("correlation_id", correlationID),
		zap.Int64("chat_id", chatID),
		zap.Int("text_length", len(text)))

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	operation := func() error {
		_, err := p.bot.Send(msg)
		if err == nil {
			return nil
		}
		if isRetryableSendError(err) {
			p.logger.Warn("Retryable send failure, will retry",
				zap.String("correlation_id", correlationID),
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			return err
		}
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(operation, p.newSendBackOff()); err != nil {
		p.logger.Error("Failed to send message",
			zap.String("correlation_id", correlationID),
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return wrapSendError(err)
	}

	p.logger.Debug("Message sent successfully",
		zap.String("correlation_id", correlationID),
		zap.Int64("chat_id", chatID))

	return nil
}

// newSendBackOff builds a fresh retry policy per send. The horizon is kept
// short: a reminder sweep must not stall behind one unreachable chat.
func (p *telegramProvider) newSendBackOff() backoff.BackOff {
	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = 500 * time.Millisecond
	strategy.MaxInterval = 5 * time.Second
	strategy.MaxElapsedTime = 30 * time.Second
	strategy.Multiplier = 2.0

	maxRetries := p.config.SendMaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return backoff.WithMaxRetries(strategy, uint64(maxRetries))
}

// isRetryableSendError reports whether a Telegram send failure is worth
// retrying. Rate limits and server-side errors are; rejections such as a
// blocked bot or an unknown chat are not. Errors that are not Telegram API
// responses are treated as transient network failures.
func isRetryableSendError(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return true
	}
	return apiErr.Code == 429 || apiErr.Code >= 500 || apiErr.RetryAfter > 0
}

// wrapSendError converts a Telegram API failure into the package error
// taxonomy, preserving status and retry-after details when present.
func wrapSendError(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return TelegramAPIError{
			Operation:   "send message",
			StatusCode:  apiErr.Code,
			APIError:    GetTelegramErrorCode(apiErr.Code),
			Description: apiErr.Message,
			RetryAfter:  apiErr.RetryAfter,
		}
	}
	return WrapTelegramError(err, "send message")
}

// SetWebhook configures the webhook URL for receiving updates
func (p *telegramProvider) SetWebhook(webhookURL string) error {
	p.logger.Info("Setting webhook", zap.String("webhook_url", webhookURL))

	webhookConfig, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		p.logger.Error("Failed to create webhook config",
			zap.String("webhook_url", webhookURL),
			zap.Error(err))
		return fmt.Errorf("failed to create webhook config: %w", err)
	}

	_, err = p.bot.Request(webhookConfig)
	if err != nil {
		p.logger.Error("Failed to set webhook",
			zap.String("webhook_url", webhookURL),
			zap.Error(err))
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	p.logger.Info("Webhook set successfully", zap.String("webhook_url", webhookURL))
	return nil
}

// DeleteWebhook removes the configured webhook
func (p *telegramProvider) DeleteWebhook() error {
	p.logger.Info("Deleting webhook")

	_, err := p.bot.Request(tgbotapi.DeleteWebhookConfig{})
	if err != nil {
		p.logger.Error("Failed to delete webhook", zap.Error(err))
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	p.logger.Info("Webhook deleted successfully")
	return nil
}

// GetMe returns information about the bot
func (p *telegramProvider) GetMe() (*tgbotapi.User, error) {
	p.logger.Debug("Getting bot information")

	me, err := p.bot.GetMe()
	if err != nil {
		p.logger.Error("Failed to get bot information", zap.Error(err))
		return nil, fmt.Errorf("failed to get bot information: %w", err)
	}

	p.logger.Debug("Bot information retrieved successfully",
		zap.String("username", me.UserName),
		zap.String("first_name", me.FirstName))

	return &me, nil
}

// GetUpdatesChan starts long polling against the Telegram API
func (p *telegramProvider) GetUpdatesChan(timeout int) tgbotapi.UpdatesChannel {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = timeout

	p.logger.Info("Starting long polling", zap.Int("timeout", timeout))

	return p.bot.GetUpdatesChan(updateConfig)
}

// StopPolling stops the long polling loop
func (p *telegramProvider) StopPolling() {
	p.logger.Info("Stopping long polling")
	p.bot.StopReceivingUpdates()
}
