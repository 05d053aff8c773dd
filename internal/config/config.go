package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	DiningAPIAddress   string
	DiningSSOAddress   string
	DiningSharedSecret string
	JWTSecret          string
	PollInterval       time.Duration
	PollMaxAttempts    int
	SchedulerInterval  time.Duration
	SchedulerLookahead time.Duration
	ShutdownTimeout    time.Duration
}

const (
	defaultRunAddress         = ":8080"
	defaultJWTSecret          = "change-me-in-production"
	defaultPollInterval       = 10 * time.Second
	defaultPollMaxAttempts    = 30
	defaultSchedulerInterval  = time.Minute
	defaultSchedulerLookahead = 5 * time.Minute
	defaultShutdownTimeout    = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		DiningAPIAddress:   getString(lookup, "DINING_API_ADDRESS", ""),
		DiningSSOAddress:   getString(lookup, "DINING_SSO_ADDRESS", ""),
		DiningSharedSecret: getString(lookup, "DINING_SHARED_SECRET", ""),
		JWTSecret:          getString(lookup, "JWT_SECRET", defaultJWTSecret),
		PollInterval:       getDuration(lookup, "POLL_INTERVAL", defaultPollInterval),
		PollMaxAttempts:    getInt(lookup, "POLL_MAX_ATTEMPTS", defaultPollMaxAttempts),
		SchedulerInterval:  getDuration(lookup, "SCHEDULER_INTERVAL", defaultSchedulerInterval),
		SchedulerLookahead: getDuration(lookup, "SCHEDULER_LOOKAHEAD", defaultSchedulerLookahead),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("campusorder", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.PollInterval.String()
		schedIntervalStr   = cfg.SchedulerInterval.String()
		schedLookaheadStr  = cfg.SchedulerLookahead.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.DiningAPIAddress, "dining-api", cfg.DiningAPIAddress, "Dining platform API base URL")
	fs.StringVar(&cfg.DiningSSOAddress, "dining-sso", cfg.DiningSSOAddress, "Dining platform identity-provider base URL")
	fs.StringVar(&cfg.DiningSharedSecret, "dining-secret", cfg.DiningSharedSecret, "Shared secret for registration signing")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between order status polls")
	fs.IntVar(&cfg.PollMaxAttempts, "poll-attempts", cfg.PollMaxAttempts, "Maximum status polls per order")
	fs.StringVar(&schedIntervalStr, "scheduler-interval", schedIntervalStr, "Interval between scheduler sweeps")
	fs.StringVar(&schedLookaheadStr, "scheduler-lookahead", schedLookaheadStr, "How far ahead a sweep picks up scheduled orders")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.SchedulerInterval, err = time.ParseDuration(schedIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid scheduler interval: %w", err)
	}

	if cfg.SchedulerLookahead, err = time.ParseDuration(schedLookaheadStr); err != nil {
		return nil, fmt.Errorf("invalid scheduler lookahead: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	if cfg.PollMaxAttempts <= 0 {
		cfg.PollMaxAttempts = defaultPollMaxAttempts
	}

	if cfg.SchedulerInterval <= 0 {
		cfg.SchedulerInterval = defaultSchedulerInterval
	}

	if cfg.SchedulerLookahead <= 0 {
		cfg.SchedulerLookahead = defaultSchedulerLookahead
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.DiningAPIAddress == "" {
		return nil, fmt.Errorf("dining API address must be provided")
	}

	if cfg.DiningSSOAddress == "" {
		return nil, fmt.Errorf("dining SSO address must be provided")
	}

	if cfg.DiningSharedSecret == "" {
		return nil, fmt.Errorf("dining shared secret must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
