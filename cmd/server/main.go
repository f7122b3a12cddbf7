package main

import (
	_ "github.com/joho/godotenv/autoload" // Load .env file automatically

	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"birthdaybot-api/api/routes"
	"birthdaybot-api/internal/birthday"
	"birthdaybot-api/internal/chatbot"
	"birthdaybot-api/internal/common"
	"birthdaybot-api/internal/config"
	"birthdaybot-api/internal/database"
	"birthdaybot-api/internal/events"
	"birthdaybot-api/internal/scheduler"
	"birthdaybot-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger at the configured level
	logger := logger.NewAtLevel(cfg.Logging.Level)
	defer logger.Sync()

	// Get the underlying zap logger for services
	zapLogger := logger.SugaredLogger.Desugar()

	// Initialize database
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	// Run birthday module migrations
	if err := birthday.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run birthday migrations", "error", err)
	}

	// Initialize event bus
	eventBus := events.NewEventBus(zapLogger)
	clock := common.NewRealClock()

	// Initialize services
	birthdayRepository := birthday.NewGormBirthdayRepository(db, zapLogger)
	birthdayService := birthday.NewBirthdayService(eventBus, zapLogger, birthdayRepository, clock)

	chatbotService, err := chatbot.NewChatbotService(eventBus, zapLogger, cfg.Telegram)
	if err != nil {
		logger.Fatal("Failed to initialize chatbot service", "error", err)
	}

	// Initialize scheduler
	var reminderScheduler scheduler.ReminderScheduler
	if cfg.Scheduler.Enabled {
		reminderScheduler, err = scheduler.NewReminderScheduler(cfg.Scheduler, birthdayRepository, chatbotService, eventBus, clock, zapLogger)
		if err != nil {
			logger.Fatal("Failed to create scheduler", "error", err)
		}

		if err := reminderScheduler.Start(); err != nil {
			logger.Fatal("Failed to start scheduler", "error", err)
		}
	} else {
		logger.Info("Reminder scheduler disabled")
	}

	// Start update intake
	switch cfg.Telegram.Mode {
	case config.TelegramModePolling:
		if err := chatbotService.StartPolling(); err != nil {
			logger.Fatal("Failed to start update polling", "error", err)
		}
		logger.Info("Receiving updates via long polling")
	case config.TelegramModeWebhook:
		logger.Info("Receiving updates via webhook", "webhook_url", cfg.Telegram.WebhookURL)
	default:
		logger.Fatal("Unknown telegram mode", "mode", cfg.Telegram.Mode)
	}

	logger.Info("Services initialized",
		"birthday", birthdayService != nil,
		"database_driver", cfg.Database.Driver,
		"scheduler_enabled", cfg.Scheduler.Enabled)

	// Setup Gin router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	routes.SetupRoutes(router, db, logger, chatbotService, reminderScheduler)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Stop taking new updates first, then the sweep, then the bus.
	if cfg.Telegram.Mode == config.TelegramModePolling {
		chatbotService.StopPolling()
	}

	if reminderScheduler != nil {
		if err := reminderScheduler.Stop(); err != nil {
			logger.Error("Failed to stop scheduler gracefully", "error", err)
		}
	}

	busDone := make(chan struct{})
	go func() {
		if err := eventBus.Close(); err != nil {
			logger.Error("Failed to close event bus", "error", err)
		}
		close(busDone)
	}()

	select {
	case <-busDone:
		logger.Info("Event bus closed")
	case <-time.After(5 * time.Second):
		logger.Warn("Event bus shutdown timed out")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
