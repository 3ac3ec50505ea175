package config

import (
	"reflect"
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/poa?sslmode=disable")
	t.Setenv("DEFAULT_CHAT_ID", "-1001234567890")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("CRON_SPEC_EXPIRY_CHECK", "")
	t.Setenv("NOTIFY_THRESHOLD_DAYS", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ENVIRONMENT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8000")
	}
	if cfg.CronSpecExpiryCheck != "0 9 * * *" {
		t.Errorf("CronSpecExpiryCheck = %q, want %q", cfg.CronSpecExpiryCheck, "0 9 * * *")
	}
	if !reflect.DeepEqual(cfg.NotifyThresholdDays, []int{7, 3, 1}) {
		t.Errorf("NotifyThresholdDays = %v, want [7 3 1]", cfg.NotifyThresholdDays)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "development")
	}
	if cfg.DefaultChatID != -1001234567890 {
		t.Errorf("DefaultChatID = %d, want -1001234567890", cfg.DefaultChatID)
	}
}

func TestLoad_MissingCredentialsIsNotFatal(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DEFAULT_CHAT_ID", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.TelegramToken != "" || cfg.DatabaseURL != "" {
		t.Errorf("expected empty credentials, got token=%q url=%q", cfg.TelegramToken, cfg.DatabaseURL)
	}
}

func TestLoad_InvalidChatID(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DEFAULT_CHAT_ID", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for invalid DEFAULT_CHAT_ID, got nil")
	}
}

func TestParseThresholdDays(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{"default set", "7,3,1", []int{7, 3, 1}, false},
		{"single value", "14", []int{14}, false},
		{"spaces tolerated", " 7 , 3 , 1 ", []int{7, 3, 1}, false},
		{"order preserved", "1,3,7", []int{1, 3, 7}, false},
		{"non-numeric", "7,three,1", nil, true},
		{"negative", "7,-3", nil, true},
		{"empty list", ",,", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseThresholdDays(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseThresholdDays(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseThresholdDays(%q) returned error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseThresholdDays(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
