package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all worker configuration, loaded from the environment.
type Config struct {
	Gateway  GatewayConfig
	RabbitMQ RabbitMQConfig
	Database DatabaseConfig
	Worker   WorkerConfig
}

// GatewayConfig holds the messaging-gateway connection settings.
type GatewayConfig struct {
	BaseURL string        `env:"GATEWAY_BASE_URL"`
	APIKey  string        `env:"GATEWAY_API_KEY"`
	Timeout time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"15s"`
}

// RabbitMQConfig holds broker connection settings.
type RabbitMQConfig struct {
	Host     string `env:"RABBITMQ_HOST" envDefault:"localhost"`
	Port     int    `env:"RABBITMQ_PORT" envDefault:"5672"`
	User     string `env:"RABBITMQ_USER" envDefault:"guest"`
	Password string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	Name     string `env:"POSTGRES_DB"`
}

// WorkerConfig holds delivery-loop tuning.
type WorkerConfig struct {
	// MaxAttempts bounds transient redeliveries of a single job.
	MaxAttempts int `env:"WORKER_MAX_ATTEMPTS" envDefault:"5"`
	// RetryBackoff is the wait-queue delay applied between transient retries.
	RetryBackoff time.Duration `env:"WORKER_RETRY_BACKOFF" envDefault:"30s"`
	// NotReadyDelayMin/Max bound the randomized re-run delay used when the
	// gateway instance exists but is not connected yet.
	NotReadyDelayMin time.Duration `env:"WORKER_NOT_READY_DELAY_MIN" envDefault:"60s"`
	NotReadyDelayMax time.Duration `env:"WORKER_NOT_READY_DELAY_MAX" envDefault:"120s"`
	// HeartbeatInterval is how often the worker refreshes its registry row.
	HeartbeatInterval time.Duration `env:"WORKER_HEARTBEAT_INTERVAL" envDefault:"30s"`
}

// Load reads an optional .env file, parses the environment into a Config,
// and validates required fields.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// missing .env is fine; the real environment wins either way
		_ = godotenv.Load(envFile)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// validate checks required fields and basic ranges.
func (c *Config) validate() error {
	var problems []string

	// Gateway
	if c.Gateway.BaseURL == "" {
		problems = append(problems, "GATEWAY_BASE_URL is required")
	}
	if c.Gateway.APIKey == "" {
		problems = append(problems, "GATEWAY_API_KEY is required")
	}
	if c.Gateway.Timeout <= 0 {
		problems = append(problems, "GATEWAY_TIMEOUT must be > 0")
	}

	// RabbitMQ
	if c.RabbitMQ.Port <= 0 || c.RabbitMQ.Port > 65535 {
		problems = append(problems, "RABBITMQ_PORT must be in 1..65535")
	}

	// Database
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		problems = append(problems, "POSTGRES_PORT must be in 1..65535")
	}
	if c.Database.User == "" {
		problems = append(problems, "POSTGRES_USER is required")
	}
	if c.Database.Name == "" {
		problems = append(problems, "POSTGRES_DB is required")
	}

	// Worker
	if c.Worker.MaxAttempts <= 0 {
		problems = append(problems, "WORKER_MAX_ATTEMPTS must be > 0")
	}
	if c.Worker.NotReadyDelayMin <= 0 || c.Worker.NotReadyDelayMax <= c.Worker.NotReadyDelayMin {
		problems = append(problems, "not-ready delay window must satisfy 0 < min < max")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// AMQPURL builds the broker URL from the RabbitMQ section.
func (c *Config) AMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}

// PostgresDSN builds a safe URL DSN from the Database section.
func (c *Config) PostgresDSN() string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:   c.Database.Name,
		User:   url.UserPassword(c.Database.User, c.Database.Password),
	}
	return u.String()
}
