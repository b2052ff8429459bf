package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	SupabaseURL            string // Postgres connection URI of the Supabase project
	SupabaseServiceRoleKey string
	Port                   int
	CORSOrigins            []string
	LogLevel               string
	Environment            string
	Location               *time.Location // "today" is evaluated here
	CronSpecKGB            string
	KGBSchedulerEnabled    bool

	// Notifier is NotifierSMTP or NotifierLog. The log notifier reports every
	// message as delivered, so it has to be chosen explicitly.
	Notifier     string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	AdminEmail   string

	TelegramToken   string // optional
	AdminTelegramID int64
}

const (
	NotifierSMTP = "smtp"
	NotifierLog  = "log"
)

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.SupabaseURL = os.Getenv("SUPABASE_URL")
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is not set")
	}

	cfg.SupabaseServiceRoleKey = os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	if cfg.SupabaseServiceRoleKey == "" {
		return nil, fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is not set")
	}

	cfg.Port, err = intEnv("PORT", 3001)
	if err != nil {
		return nil, err
	}

	cfg.CORSOrigins = splitList(os.Getenv("CORS_ORIGINS"))
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:3000"}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	tz := os.Getenv("APP_TIMEZONE")
	if tz == "" {
		tz = "Asia/Jakarta"
	}
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	cfg.CronSpecKGB = os.Getenv("CRON_SPEC_KGB")
	if cfg.CronSpecKGB == "" {
		cfg.CronSpecKGB = "0 7 * * *" // Default: 07:00 daily
	}

	cfg.KGBSchedulerEnabled = true
	if v := os.Getenv("KGB_SCHEDULER_ENABLED"); v != "" {
		cfg.KGBSchedulerEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid KGB_SCHEDULER_ENABLED: %w", err)
		}
	}

	cfg.Notifier = strings.ToLower(os.Getenv("NOTIFIER"))
	if cfg.Notifier == "" {
		cfg.Notifier = NotifierSMTP
	}
	if cfg.Notifier != NotifierSMTP && cfg.Notifier != NotifierLog {
		return nil, fmt.Errorf("invalid NOTIFIER %q: want %q or %q", cfg.Notifier, NotifierSMTP, NotifierLog)
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.Notifier == NotifierSMTP && cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST is not set (use NOTIFIER=log to only log KGB notifications)")
	}
	cfg.SMTPPort, err = intEnv("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.SMTPFrom = os.Getenv("SMTP_FROM")
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUsername
	}
	cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")
	if cfg.Notifier == NotifierSMTP && cfg.AdminEmail == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL is not set")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID"); adminIDStr != "" {
		cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	return cfg, nil
}

// TelegramEnabled reports whether the admin bot should be started.
func (c *AppConfig) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.AdminTelegramID != 0
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
