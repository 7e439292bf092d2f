package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken   string
	DatabaseURL     string
	AdminTelegramID int64
	FirmChatID      int64 // Telegram chat that receives routine alerts; 0 disables the channel
	LogLevel        string
	Environment     string

	CronSpecSweep   string // daily materialization sweep (catches month rollovers)
	CronSpecOverdue string // daily overdue-routine check

	PixAPIURL   string // empty means the bank integration always falls back to mock
	PixAPIToken string
	DocumentDir string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	// Optional: routine alerts are skipped when unset.
	if firmChatStr := os.Getenv("FIRM_CHAT_ID"); firmChatStr != "" {
		cfg.FirmChatID, err = strconv.ParseInt(firmChatStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid FIRM_CHAT_ID: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecSweep = os.Getenv("CRON_SPEC_SWEEP")
	if cfg.CronSpecSweep == "" {
		cfg.CronSpecSweep = "0 6 * * *" // Default: 06:00 daily
	}

	cfg.CronSpecOverdue = os.Getenv("CRON_SPEC_OVERDUE_CHECK")
	if cfg.CronSpecOverdue == "" {
		cfg.CronSpecOverdue = "0 8 * * *" // Default: 08:00 daily
	}

	cfg.PixAPIURL = os.Getenv("PIX_API_URL")
	cfg.PixAPIToken = os.Getenv("PIX_API_TOKEN")

	cfg.DocumentDir = os.Getenv("DOCUMENT_DIR")
	if cfg.DocumentDir == "" {
		cfg.DocumentDir = "./uploads"
	}

	return cfg, nil
}
