// Package config loads runtime settings from the environment, after an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	Environment string
	LogLevel    string
	SentryDSN   string
	CORSOrigins []string

	// Store
	DBDriver    string
	DatabaseURL string
	DBPath      string

	// Model endpoint; an empty key means dry-run
	GrokAPIKey  string
	GrokAPIURL  string
	GrokModel   string
	GrokTimeout time.Duration

	// Outreach dispatch
	AMQPURL  string
	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string
}

// Load reads .env files when present (missing files are fine) and then the
// process environment, which wins.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	timeout, err := time.ParseDuration(getenv("GROK_TIMEOUT", "60s"))
	if err != nil || timeout <= 0 {
		return Config{}, fmt.Errorf("GROK_TIMEOUT: invalid duration %q", os.Getenv("GROK_TIMEOUT"))
	}

	mailPort, err := strconv.Atoi(getenv("MAIL_PORT", "587"))
	if err != nil {
		return Config{}, fmt.Errorf("MAIL_PORT: %w", err)
	}

	cfg := Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:5173")),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBPath:      getenv("DB_PATH", "data/leads.db"),

		GrokAPIKey:  os.Getenv("GROK_API_KEY"),
		GrokAPIURL:  getenv("GROK_API_URL", "https://api.x.ai/v1"),
		GrokModel:   getenv("GROK_MODEL", "grok-3-mini"),
		GrokTimeout: timeout,

		AMQPURL:  os.Getenv("AMQP_URL"),
		MailHost: os.Getenv("MAIL_HOST"),
		MailPort: mailPort,
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),
		MailFrom: getenv("MAIL_FROM", "sdr@localhost"),
	}

	switch cfg.DBDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DBDriver)
	}

	return cfg, nil
}

// DSN is what the store opens: the sqlite file path or the postgres URL.
func (c Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
