// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration. Required values are enforced by
// must(); optional values fall back to defaults that match the original
// deployment (20-minute pending expiry, 5-minute sweep cadence).
type Config struct {
	Env            string // application environment (dev/test/prod)
	Port           string // HTTP port to listen on
	DBUser         string
	DBPass         string // optional
	DBHost         string
	DBPort         string
	DBName         string
	DBMaxOpenConns int           // connection pool sizing
	DBMaxIdleConns int
	DBConnLifetime time.Duration
	JWTSecret      string
	AccessTTLMin   int // access token TTL in minutes
	RefreshTTLDays int // refresh token TTL in days
	BcryptCost     int

	// Booking engine timing. PendingTTL is how long a booking may sit
	// unconfirmed before the sweep cancels it; SweepInterval is the poll
	// cadence of the background sweep.
	PendingTTL    time.Duration
	SweepInterval time.Duration

	// Side channels, all optional. Empty values disable the feature.
	AMQPURL        string
	MailgunDomain  string
	MailgunAPIKey  string
	MailFromName   string
	MailFromAddr   string
}

// Load reads configuration from the environment. Missing required variables
// abort startup with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		DBMaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: envInt("DB_MAX_IDLE_CONNS", 25),
		DBConnLifetime: envDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		PendingTTL:     envDuration("BOOKING_PENDING_TTL", 20*time.Minute),
		SweepInterval:  envDuration("BOOKING_SWEEP_INTERVAL", 5*time.Minute),
		AMQPURL:        os.Getenv("RABBITMQ_URL"),
		MailgunDomain:  os.Getenv("MAILGUN_DOMAIN"),
		MailgunAPIKey:  os.Getenv("MAILGUN_API_KEY"),
		MailFromName:   getenv("MAIL_FROM_NAME", "Marina Marketplace"),
		MailFromAddr:   os.Getenv("MAIL_FROM_ADDR"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is must() with integer conversion.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
