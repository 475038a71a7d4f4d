package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Config описывает настройки запуска сервиса.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver string
	PostgresDSN   string
	AutoMigrate   bool

	KafkaBrokers string
	OutboxTopic  string
	DLQTopic     string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int

	ShutdownTimeout time.Duration
}

// DefaultConfig возвращает конфигурацию для локального запуска:
// in-memory хранилище, без Kafka.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:           ":8080",
		MetricsAddr:        ":9090",
		StorageDriver:      StorageDriverMemory,
		AutoMigrate:        true,
		OutboxPollInterval: 1 * time.Second,
		OutboxBatchSize:    100,
		OutboxMaxAttempts:  3,
		ShutdownTimeout:    5 * time.Second,
	}
}

// LoadConfigFromEnv накладывает переменные окружения STOREFRONT_* поверх
// дефолтов.
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()

	cfg.HTTPAddr = envString("STOREFRONT_HTTP_ADDR", cfg.HTTPAddr)
	cfg.MetricsAddr = envString("STOREFRONT_METRICS_ADDR", cfg.MetricsAddr)
	cfg.StorageDriver = strings.ToLower(envString("STOREFRONT_STORAGE_DRIVER", cfg.StorageDriver))
	cfg.PostgresDSN = envString("STOREFRONT_POSTGRES_DSN", cfg.PostgresDSN)
	cfg.AutoMigrate = envBool("STOREFRONT_AUTO_MIGRATE", cfg.AutoMigrate)
	cfg.KafkaBrokers = envString("STOREFRONT_KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.OutboxTopic = envString("STOREFRONT_OUTBOX_TOPIC", cfg.OutboxTopic)
	cfg.DLQTopic = envString("STOREFRONT_DLQ_TOPIC", cfg.DLQTopic)
	cfg.OutboxPollInterval = envDuration("STOREFRONT_OUTBOX_POLL_INTERVAL", cfg.OutboxPollInterval)
	cfg.OutboxBatchSize = envInt("STOREFRONT_OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxMaxAttempts = envInt("STOREFRONT_OUTBOX_MAX_ATTEMPTS", cfg.OutboxMaxAttempts)
	cfg.ShutdownTimeout = envDuration("STOREFRONT_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	return cfg
}

// Validate проверяет согласованность конфигурации до старта.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres storage driver requires STOREFRONT_POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unknown storage driver %q (expected %s or %s)",
			c.StorageDriver, StorageDriverMemory, StorageDriverPostgres)
	}

	if c.HTTPAddr == "" {
		return fmt.Errorf("http listen address must not be empty")
	}
	return nil
}

func envString(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
