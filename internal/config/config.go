// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env            string        // APP_ENV: dev, test or prod
	Port           string        // APP_PORT: HTTP port to listen on
	BackendURL     string        // BACKEND_URL: base URL of the cinema REST backend
	BackendTimeout time.Duration // BACKEND_TIMEOUT: per-request timeout towards the backend
	JWTSecret      string        // JWT_SECRET: verifies bearer tokens when set; otherwise they are only decoded
	SessionTTL     time.Duration // SESSION_TTL: idle lifetime of a booking session
	QRSecret       string        // TICKET_QR_SECRET: seals ticket QR payloads; QR codes are disabled when empty
	LogLevel       string        // LOG_LEVEL: debug, info, warn or error
	LogFormat      string        // LOG_FORMAT: json or text
	AMQPURL        string        // RABBITMQ_URL or AMQP_URL: broker for booking events; empty disables publishing
}

// Load reads .env when present, then the environment.  A missing or
// malformed required variable is fatal.
func Load() Config {
	_ = godotenv.Load()
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Parse builds a Config from the current environment.
func Parse() (Config, error) {
	cfg := Config{
		Env:            getenv("APP_ENV", "dev"),
		Port:           getenv("APP_PORT", "8080"),
		BackendURL:     os.Getenv("BACKEND_URL"),
		BackendTimeout: envDur("BACKEND_TIMEOUT", 30*time.Second),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SessionTTL:     envDur("SESSION_TTL", 30*time.Minute),
		QRSecret:       os.Getenv("TICKET_QR_SECRET"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      getenv("LOG_FORMAT", "json"),
		AMQPURL:        getenv("RABBITMQ_URL", os.Getenv("AMQP_URL")),
	}
	if cfg.BackendURL == "" {
		return Config{}, fmt.Errorf("missing required env var: BACKEND_URL")
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("invalid APP_PORT %q", cfg.Port)
	}
	if cfg.SessionTTL < time.Minute {
		cfg.SessionTTL = time.Minute
	}
	return cfg, nil
}
