package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// Built once at process entry and passed by reference; never re-read mid-process.
type AppConfig struct {
	TelegramToken       string
	DatabaseURL         string
	DefaultChatID       int64
	Port                string
	CronSpecExpiryCheck string
	NotifyThresholdDays []int
	LogLevel            string
	Environment         string
}

// Load reads configuration from environment variables and .env file (if present).
//
// TELEGRAM_TOKEN and DATABASE_URL are allowed to be absent: the process then
// starts in a degraded state and the health endpoint reports it, instead of
// crashing outright.
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables; a missing .env
	// file is not an error.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	chatIDStr := os.Getenv("DEFAULT_CHAT_ID")
	if chatIDStr != "" {
		cfg.DefaultChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_CHAT_ID: %w", err)
		}
	}

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "8000"
	}

	cfg.CronSpecExpiryCheck = os.Getenv("CRON_SPEC_EXPIRY_CHECK")
	if cfg.CronSpecExpiryCheck == "" {
		cfg.CronSpecExpiryCheck = "0 9 * * *" // Default: 9:00 AM daily
	}

	thresholdsStr := os.Getenv("NOTIFY_THRESHOLD_DAYS")
	if thresholdsStr == "" {
		thresholdsStr = "7,3,1"
	}
	cfg.NotifyThresholdDays, err = ParseThresholdDays(thresholdsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_THRESHOLD_DAYS: %w", err)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	return cfg, nil
}

// ParseThresholdDays parses a comma-separated list of day counts, e.g. "7,3,1".
// Order is preserved; every entry must be a non-negative integer.
func ParseThresholdDays(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad threshold value %q: %w", p, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("threshold value must not be negative: %d", d)
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("threshold list is empty")
	}
	return days, nil
}
