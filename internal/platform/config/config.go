package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Publisher backends accepted by EVENT_PUBLISHER.
const (
	PublisherLog   = "log"
	PublisherKafka = "kafka"
	PublisherRedis = "redis"
)

// Config captures everything main needs to wire the service.
type Config struct {
	Addr            string
	LogMode         string
	DatabaseURL     string
	EventPublisher  string
	KafkaBrokers    []string
	KafkaTopic      string
	RedisURL        string
	RedisStream     string
	ShutdownTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:            getenv("SALES_API_ADDR", ":8081"),
		LogMode:         getenv("SALES_LOG_MODE", "dev"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		EventPublisher:  strings.ToLower(getenv("EVENT_PUBLISHER", PublisherLog)),
		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:      getenv("KAFKA_TOPIC", "sales-events"),
		RedisURL:        os.Getenv("REDIS_URL"),
		RedisStream:     getenv("REDIS_STREAM", "sales-events"),
		ShutdownTimeout: 10 * time.Second,
	}
	if raw := os.Getenv("SHUTDOWN_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", raw, err)
		}
		cfg.ShutdownTimeout = d
	}
	return cfg, cfg.Validate()
}

// Validate checks that the selected publisher has what it needs.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	switch c.EventPublisher {
	case PublisherLog:
	case PublisherKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required when EVENT_PUBLISHER=kafka"))
		}
		if c.KafkaTopic == "" {
			errs = append(errs, errors.New("KAFKA_TOPIC is required when EVENT_PUBLISHER=kafka"))
		}
	case PublisherRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when EVENT_PUBLISHER=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EVENT_PUBLISHER %q", c.EventPublisher))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
