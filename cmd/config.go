package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort                 string
	DBHost                   string
	DBPort                   string
	DBUser                   string
	DBPassword               string
	DBName                   string
	DBSslMode                string
	KafkaBrokers             string
	KafkaNotificationTopic   string
	RedisAddr                string
	Currency                 string
	DraftTTL                 time.Duration
	IdempotencyTTL           time.Duration
	DisputeWindow            time.Duration
	OutboxDispatchSchedule   string
	OutboxBatchSize          int
	IdempotencyPurgeSchedule string
}

// LoadConfig reads the configuration from the environment, after loading envFile
// into it when the file exists. Unset keys take their defaults.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg := Config{
		HTTPPort:                 env("HTTP_PORT", "8080"),
		DBHost:                   env("DB_HOST", "localhost"),
		DBPort:                   env("DB_PORT", "5432"),
		DBUser:                   env("DB_USER", "postgres"),
		DBPassword:               env("DB_PASSWORD", ""),
		DBName:                   env("DB_NAME", "marketplace"),
		DBSslMode:                env("DB_SSLMODE", "disable"),
		KafkaBrokers:             env("KAFKA_BROKERS", ""),
		KafkaNotificationTopic:   env("KAFKA_NOTIFICATION_TOPIC", "marketplace.notifications"),
		RedisAddr:                env("REDIS_ADDR", ""),
		Currency:                 env("CURRENCY", "VND"),
		OutboxDispatchSchedule:   env("OUTBOX_DISPATCH_SCHEDULE", "*/2 * * * * *"),
		IdempotencyPurgeSchedule: env("IDEMPOTENCY_PURGE_SCHEDULE", "0 */10 * * * *"),
	}

	var err error
	if cfg.DraftTTL, err = durationEnv("DRAFT_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.DisputeWindow, err = durationEnv("DISPUTE_WINDOW", 15*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.OutboxBatchSize, err = intEnv("OUTBOX_BATCH_SIZE", 100); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN is the postgres connection string of the config.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := env(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: %q is not a positive duration", key, raw)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := env(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: %q is not a positive integer", key, raw)
	}
	return n, nil
}
