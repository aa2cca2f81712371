// Package cli provides common CLI initialization utilities shared by the
// finsheet commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finsheet/internal/amqp"
	"finsheet/internal/config"
	"finsheet/internal/log"
	"finsheet/internal/storage"
)

// SetupLogger initializes structured logging on stderr at the given level.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(level slog.Level) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = level
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenJournal opens the run journal when SQLITE_DB_PATH is set. A nil
// journal means journaling is off.
func OpenJournal(logger *log.Logger, cfg *config.Config) (*storage.Journal, error) {
	if cfg.SQLiteDBPath == "" {
		return nil, nil
	}
	j, err := storage.NewJournal(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", cfg.SQLiteDBPath, err)
	}
	logger.Debug("Journal opened", "path", cfg.SQLiteDBPath)
	return j, nil
}

// OpenPublisher connects to the broker when AMQP_URL is set. A broker that
// cannot be reached is logged and treated as disabled; the import does not
// depend on it.
func OpenPublisher(logger *log.Logger, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	c, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
	if err != nil {
		logger.Warn("AMQP unavailable, events disabled", log.FieldError, err)
		return nil
	}
	logger.Debug("AMQP publisher connected", "exchange", cfg.AMQPExchange, "routing_key", cfg.AMQPRoutingKey)
	return c
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
