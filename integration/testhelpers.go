//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"birthdaybot-api/internal/birthday"
	"birthdaybot-api/internal/chatbot"
	"birthdaybot-api/internal/common"
	"birthdaybot-api/internal/config"
	"birthdaybot-api/internal/database"
	"birthdaybot-api/internal/events"
	"birthdaybot-api/internal/mocks"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// testSuite wires the full command stack the way cmd/server does, with
// in-memory SQLite standing in for the database and the recording mock
// provider standing in for Telegram.
type testSuite struct {
	db       *gorm.DB
	bus      events.EventBus
	provider *mocks.MockTelegramProvider
	chatbot  chatbot.ChatbotService
	repo     birthday.BirthdayRepository
	clock    *common.MockClock
}

func newTestSuite(t *testing.T, now time.Time) *testSuite {
	t.Helper()

	db, err := database.NewConnection(config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, birthday.RunMigrations(db))

	zapLogger := zaptest.NewLogger(t)

	bus := events.NewEventBus(zapLogger)
	t.Cleanup(func() { bus.Close() })

	clock := common.NewMockClock(now)
	repo := birthday.NewGormBirthdayRepository(db, zapLogger)
	birthday.NewBirthdayService(bus, zapLogger, repo, clock)

	provider := mocks.NewMockTelegramProvider()
	chatbotService, err := chatbot.NewChatbotServiceWithProvider(bus, zapLogger, provider, config.TelegramConfig{
		Token:          "test-token",
		Mode:           config.TelegramModePolling,
		PollTimeout:    1,
		SendMaxRetries: 1,
	})
	require.NoError(t, err)

	return &testSuite{
		db:       db,
		bus:      bus,
		provider: provider,
		chatbot:  chatbotService,
		repo:     repo,
		clock:    clock,
	}
}

// handleCommand drives one Telegram update through the webhook path.
func (s *testSuite) handleCommand(t *testing.T, userID, chatID int64, text string) {
	t.Helper()
	require.NoError(t, s.chatbot.HandleWebhook(mocks.SimulateMessageUpdate(userID, chatID, text)))
}

// records returns every stored record for the given chat.
func (s *testSuite) records(t *testing.T, chatID string) []birthday.BirthdayRecord {
	t.Helper()

	records, err := s.repo.RecordsFor(chatID)
	require.NoError(t, err)
	return records
}

// setupPostgresDatabase starts a disposable PostgreSQL container and
// opens a pooled connection to it.
func setupPostgresDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("birthdaybot_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := database.NewConnection(config.DatabaseConfig{
		Driver:          database.DriverPostgres,
		Host:            host,
		Port:            port.Int(),
		User:            "test_user",
		Password:        "test_password",
		DBName:          "birthdaybot_test",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 300,
	})
	require.NoError(t, err, "Failed to connect to test database")

	return db
}
