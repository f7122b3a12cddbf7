package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Environment  string `mapstructure:"environment"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// DatabaseConfig selects and parameterizes the storage driver.
// Driver "postgres" uses Host/Port/User/Password/DBName/SSLMode;
// driver "sqlite" uses Path (a file path or ":memory:").
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	Path            string `mapstructure:"path"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// Update intake modes for the Telegram transport.
const (
	TelegramModePolling = "polling"
	TelegramModeWebhook = "webhook"
)

// TelegramConfig configures the bot transport. Mode is "polling" or
// "webhook"; webhook mode additionally needs a public WebhookURL.
type TelegramConfig struct {
	Token          string `mapstructure:"token"`
	Mode           string `mapstructure:"mode"`
	WebhookURL     string `mapstructure:"webhook_url"`
	PollTimeout    int    `mapstructure:"poll_timeout"`
	SendMaxRetries int    `mapstructure:"send_max_retries"`
}

// SchedulerConfig drives the daily reminder sweep. SweepTime is a
// wall-clock "HH:MM" in Timezone; LookaheadDays is the reminder window.
type SchedulerConfig struct {
	SweepTime       string `mapstructure:"sweep_time"`
	Timezone        string `mapstructure:"timezone"`
	LookaheadDays   int    `mapstructure:"lookahead_days"`
	SweepOnStart    bool   `mapstructure:"sweep_on_start"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	Enabled         bool   `mapstructure:"enabled"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set defaults
	setDefaults()

	// Enable environment variable support
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)

	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "birthdaybot")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.path", "birthdays.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 300)

	viper.SetDefault("telegram.token", "")
	viper.SetDefault("telegram.mode", "polling")
	viper.SetDefault("telegram.webhook_url", "")
	viper.SetDefault("telegram.poll_timeout", 30)
	viper.SetDefault("telegram.send_max_retries", 3)

	viper.SetDefault("scheduler.sweep_time", "09:00")
	viper.SetDefault("scheduler.timezone", "Local")
	viper.SetDefault("scheduler.lookahead_days", 3)
	viper.SetDefault("scheduler.sweep_on_start", false)
	viper.SetDefault("scheduler.shutdown_timeout", 30)
	viper.SetDefault("scheduler.enabled", true)

	viper.SetDefault("logging.level", "info")
}
