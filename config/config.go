package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppName names the postgres schema, the token issuer and generated documents.
const AppName = "tourcab"

type Config struct {
	Port        string
	LogLevel    slog.Level
	CORSOrigins []string
	TimeZone    *time.Location

	// admin access
	AdminEmails       []string
	AdminPasswordHash string
	JWTSecret         string
	SessionTTL        time.Duration
	GoogleClientID    string

	// outgoing notifications
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPass         string
	MailFrom         string
	MailTo           string
	TelegramBotToken string
	TelegramChatID   int64

	// rate limit, formatted as "<limit>-<period>" e.g. "1000-H"
	RateLimit string
	RedisURL  string

	SuggestionLimit    int
	SuggestionDebounce time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present. All missing required variables are
// reported together.
func Load() (Config, error) {
	_ = godotenv.Load()

	var missing []string
	require := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		CORSOrigins:       splitList(os.Getenv("CORS_ORIGINS")),
		AdminEmails:       splitList(require("ADMIN_EMAILS")),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:         require("JWT_SECRET"),
		GoogleClientID:    os.Getenv("GOOGLE_CLIENT_ID"),
		SMTPHost:          getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
		MailFrom:          os.Getenv("MAIL_FROM"),
		MailTo:            os.Getenv("MAIL_TO"),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		RateLimit:         getEnv("RATE_LIMIT", "1000-H"),
		RedisURL:          os.Getenv("REDIS_URL"),
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUser
	}
	if cfg.MailTo == "" && len(cfg.AdminEmails) > 0 {
		cfg.MailTo = cfg.AdminEmails[0]
	}

	var errs []error
	var err error
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		errs = append(errs, err)
	}
	if cfg.SMTPPort, err = strconv.Atoi(getEnv("SMTP_PORT", "587")); err != nil {
		errs = append(errs, fmt.Errorf("invalid SMTP_PORT: %w", err))
	}
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "12h")); err != nil {
		errs = append(errs, fmt.Errorf("invalid SESSION_TTL: %w", err))
	}
	if cfg.SuggestionLimit, err = strconv.Atoi(getEnv("SUGGESTION_LIMIT", "6")); err != nil || cfg.SuggestionLimit <= 0 {
		errs = append(errs, fmt.Errorf("invalid SUGGESTION_LIMIT %q", os.Getenv("SUGGESTION_LIMIT")))
	}
	if cfg.SuggestionDebounce, err = time.ParseDuration(getEnv("SUGGESTION_DEBOUNCE", "300ms")); err != nil {
		errs = append(errs, fmt.Errorf("invalid SUGGESTION_DEBOUNCE: %w", err))
	}
	if cfg.TimeZone, err = time.LoadLocation(getEnv("TIME_ZONE", "Asia/Colombo")); err != nil {
		errs = append(errs, fmt.Errorf("invalid TIME_ZONE: %w", err))
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if cfg.TelegramChatID, err = strconv.ParseInt(v, 10, 64); err != nil {
			errs = append(errs, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SMTPEnabled reports whether enough is configured to relay mail.
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != "" && c.MailTo != ""
}

func (c Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// NewLogger builds the JSON logger used across the process.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLevel(v string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
	}
	return lvl, nil
}
