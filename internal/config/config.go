package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config carries all settings for the tight binaries. Values come from an
// optional YAML file, overridden by environment variables, with built-in
// defaults underneath.
type Config struct {
	// HTTP server
	Port string `yaml:"port"`

	// Database
	SQLiteDBPath string `yaml:"sqlite_db_path"`

	// AMQP; empty URL disables messaging
	AMQPURL      string `yaml:"amqp_url"`
	AMQPExchange string `yaml:"amqp_exchange"`
	AMQPQueue    string `yaml:"amqp_queue"`

	// Worker
	WorkerCron string `yaml:"worker_cron"`

	// Parsed-schedule cache
	ScheduleCacheSize int           `yaml:"schedule_cache_size"`
	ScheduleCacheTTL  time.Duration `yaml:"schedule_cache_ttl"`
}

// Load builds the configuration: defaults, then the YAML file named by
// TIGHT_CONFIG (or ./tight.yaml if present), then environment overrides.
func Load() *Config {
	cfg := &Config{
		Port:              "8081",
		SQLiteDBPath:      "./data/tight.db",
		AMQPURL:           "",
		AMQPExchange:      "tight",
		AMQPQueue:         "occurrences",
		WorkerCron:        "15 6 * * *",
		ScheduleCacheSize: 128,
		ScheduleCacheTTL:  time.Hour,
	}

	path := os.Getenv("TIGHT_CONFIG")
	if path == "" {
		if _, err := os.Stat("tight.yaml"); err == nil {
			path = "tight.yaml"
		}
	}
	if path != "" {
		// File errors surface later through Validate on the defaults.
		if data, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.SQLiteDBPath = getEnv("SQLITE_DB_PATH", cfg.SQLiteDBPath)
	cfg.AMQPURL = getEnv("AMQP_URL", cfg.AMQPURL)
	cfg.AMQPExchange = getEnv("AMQP_EXCHANGE", cfg.AMQPExchange)
	cfg.AMQPQueue = getEnv("AMQP_QUEUE", cfg.AMQPQueue)
	cfg.WorkerCron = getEnv("WORKER_CRON", cfg.WorkerCron)
	cfg.ScheduleCacheSize = getEnvInt("SCHEDULE_CACHE_SIZE", cfg.ScheduleCacheSize)
	cfg.ScheduleCacheTTL = getEnvDuration("SCHEDULE_CACHE_TTL", cfg.ScheduleCacheTTL)

	return cfg
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if _, err := cron.ParseStandard(c.WorkerCron); err != nil {
		errs = append(errs, fmt.Sprintf("invalid worker cron spec '%s': %v", c.WorkerCron, err))
	}

	if c.ScheduleCacheSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid schedule cache size %d: must be at least 1", c.ScheduleCacheSize))
	}
	if c.ScheduleCacheTTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid schedule cache TTL %v: must be at least 1 second", c.ScheduleCacheTTL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
