package main

import (
	"fmt"
	"strings"
	"time"

	"birthdaybot-api/internal/birthday"
	"birthdaybot-api/internal/chatbot"
	"birthdaybot-api/internal/common"
	"birthdaybot-api/internal/config"
	"birthdaybot-api/internal/database"
	"birthdaybot-api/internal/events"
	"birthdaybot-api/internal/mocks"
	"birthdaybot-api/internal/scheduler"

	"go.uber.org/zap"
)

// An offline walkthrough of the bot: a scripted conversation runs
// through the real service stack against an in-memory database, with
// the recording provider standing in for Telegram. Handy for
// eyeballing reply texts without a bot token.
func main() {
	fmt.Println("🎂 Birthday bot offline walkthrough")
	fmt.Println(strings.Repeat("=", 60))

	logger := zap.NewNop()

	db, err := database.NewConnection(config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   ":memory:",
	})
	if err != nil {
		fmt.Printf("❌ Database: %v\n", err)
		return
	}
	if err := birthday.RunMigrations(db); err != nil {
		fmt.Printf("❌ Migrations: %v\n", err)
		return
	}

	bus := events.NewEventBus(logger)
	defer bus.Close()

	// The clock is pinned so the sweep below is reproducible.
	today := time.Date(2026, time.February, 11, 9, 0, 0, 0, time.UTC)
	clock := common.NewMockClock(today)

	repo := birthday.NewGormBirthdayRepository(db, logger)
	birthday.NewBirthdayService(bus, logger, repo, clock)

	provider := mocks.NewMockTelegramProvider()
	bot, err := chatbot.NewChatbotServiceWithProvider(bus, logger, provider, config.TelegramConfig{
		Token:       "offline-demo",
		Mode:        config.TelegramModePolling,
		PollTimeout: 1,
	})
	if err != nil {
		fmt.Printf("❌ Chatbot: %v\n", err)
		return
	}

	conversation := []string{
		"/start",
		"/add Masha 14.02.2004",
		"/add Aunt Olga 03.07",
		"/add Carol 31.02",
		"/list",
		"/delete Aunt Olga",
		"/list",
	}

	fmt.Printf("\nToday is %s\n", today.Format("02.01.2006"))

	for _, text := range conversation {
		fmt.Printf("\n> %s\n", text)

		before := provider.MessageCount()
		if err := bot.HandleWebhook(mocks.SimulateMessageUpdate(7, 7, text)); err != nil {
			fmt.Printf("❌ %v\n", err)
			continue
		}

		for _, message := range provider.GetSentMessages()[before:] {
			fmt.Println(indent(message.Text))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("Running the reminder sweep for the lookahead window:")

	sched, err := scheduler.NewReminderScheduler(config.SchedulerConfig{
		SweepTime:       "09:00",
		Timezone:        "UTC",
		LookaheadDays:   3,
		SweepOnStart:    true,
		ShutdownTimeout: 5,
		Enabled:         true,
	}, repo, bot, bus, clock, logger)
	if err != nil {
		fmt.Printf("❌ Scheduler: %v\n", err)
		return
	}

	before := provider.MessageCount()
	if err := sched.Start(); err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	// The catch-up sweep runs in the background; Stop waits for it.
	if err := sched.Stop(); err != nil {
		fmt.Printf("❌ %v\n", err)
	}

	for _, message := range provider.GetSentMessages()[before:] {
		fmt.Println(indent(message.Text))
	}

	summary := sched.GetMetrics()
	fmt.Printf("\nSweep metrics: evaluated=%d sent=%d skipped=%d\n",
		summary.RecordsEvaluated, summary.RemindersSent, summary.RecordsSkipped)
}

func indent(text string) string {
	return "  " + strings.ReplaceAll(text, "\n", "\n  ")
}
