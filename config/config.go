/*
config.go - Service configuration

PURPOSE:
  Loads service configuration from the environment, with a .env file
  picked up when present. Command-line flags in cmd/server override
  whatever the environment provides.

VARIABLES:
  PORT               HTTP listen port (default 8080)
  DB_PATH            SQLite database path (default payroll.db)
  LOG_LEVEL          logrus level name (default info)
  RUN_CONCURRENCY    batch worker pool size (default 4)
  SCHEDULER_ENABLED  automatic fortnightly runs (default true)
  SCHEDULER_INTERVAL check cadence, Go duration (default 1h)

SEE ALSO:
  - cmd/server/main.go: Flag overrides and wiring
*/
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the server needs to start.
type Config struct {
	Port             int
	DBPath           string
	LogLevel         logrus.Level
	RunConcurrency   int
	SchedulerEnabled bool
	SchedulerInterval time.Duration
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; a missing file is not
// an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:              8080,
		DBPath:            "payroll.db",
		LogLevel:          logrus.InfoLevel,
		RunConcurrency:    4,
		SchedulerEnabled:  true,
		SchedulerInterval: time.Hour,
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return cfg, err
		}
		cfg.Port = p
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return cfg, err
		}
		cfg.LogLevel = level
	}
	if v := os.Getenv("RUN_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, err
		}
		cfg.RunConcurrency = n
	}
	if v := os.Getenv("SCHEDULER_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, err
		}
		cfg.SchedulerEnabled = b
	}
	if v := os.Getenv("SCHEDULER_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, err
		}
		cfg.SchedulerInterval = d
	}
	return cfg, nil
}
