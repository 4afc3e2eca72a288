package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

// Store backend names accepted by -s / STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	Port         int
	StoreBackend string
	DatabaseURL  string
	RedisURL     string
	AmqpURL      string
	AmqpQueue    string

	GuardMode     string
	RateWindow    time.Duration
	SweepInterval time.Duration
	StoreTimeout  time.Duration

	IdentitySalt string
	TrustProxy   bool
}

// ParseFlags validates flags, falling back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var windowSecs, sweepSecs, timeoutSecs int

	fs := flag.NewFlagSet("realtime-poll-backend", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.StoreBackend, "s", "", "Store backend (postgres, sqlite, redis or memory)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (postgres/sqlite backends)")
	fs.StringVar(&cfg.RedisURL, "r", "", "Redis address (redis backend)")

	// Anti-abuse policy
	fs.StringVar(&cfg.GuardMode, "g", "", "Guard mode (oneshot or window)")
	fs.IntVar(&windowSecs, "w", 0, "Rate-limit window in seconds")
	fs.IntVar(&sweepSecs, "sweep", 0, "Guard sweep interval in seconds")
	fs.IntVar(&timeoutSecs, "store-timeout", 0, "Per-call store timeout in seconds")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.IdentitySalt, "identity-salt", "", "Voter identity hash salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8080 // default
		}
	}

	if cfg.StoreBackend == "" {
		cfg.StoreBackend = os.Getenv("STORE_BACKEND")
		if cfg.StoreBackend == "" {
			cfg.StoreBackend = BackendSQLite
		}
	}
	switch cfg.StoreBackend {
	case BackendPostgres, BackendSQLite, BackendRedis, BackendMemory:
	default:
		return Config{}, errors.New("STORE_BACKEND must be postgres, sqlite, redis or memory")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" && (cfg.StoreBackend == BackendPostgres || cfg.StoreBackend == BackendSQLite) {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	if cfg.RedisURL == "" && cfg.StoreBackend == BackendRedis {
		cfg.RedisURL = "localhost:6379"
	}

	// Optional vote event feed; empty URL disables it
	cfg.AmqpURL = os.Getenv("RABBITMQ_URL")
	cfg.AmqpQueue = os.Getenv("RABBITMQ_QUEUE")
	if cfg.AmqpQueue == "" {
		cfg.AmqpQueue = "votes"
	}

	if cfg.GuardMode == "" {
		cfg.GuardMode = os.Getenv("GUARD_MODE")
		if cfg.GuardMode == "" {
			cfg.GuardMode = "window"
		}
	}
	if cfg.GuardMode != "oneshot" && cfg.GuardMode != "window" {
		return Config{}, errors.New("GUARD_MODE must be oneshot or window")
	}

	var err error
	if cfg.RateWindow, err = secondsSetting(windowSecs, "RATE_WINDOW_SECONDS", 60); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = secondsSetting(sweepSecs, "SWEEP_INTERVAL_SECONDS", 300); err != nil {
		return Config{}, err
	}
	if cfg.StoreTimeout, err = secondsSetting(timeoutSecs, "STORE_TIMEOUT_SECONDS", 5); err != nil {
		return Config{}, err
	}

	// Secrets - MUST be provided
	if cfg.IdentitySalt == "" {
		cfg.IdentitySalt = os.Getenv("IDENTITY_SALT")
	}
	if cfg.IdentitySalt == "" {
		return Config{}, errors.New("IDENTITY_SALT required")
	}

	// Proxy headers are honored unless explicitly disabled
	cfg.TrustProxy = os.Getenv("TRUST_PROXY_HEADERS") != "false"

	return cfg, nil
}

func secondsSetting(flagValue int, envName string, fallback int) (time.Duration, error) {
	secs := flagValue
	if secs == 0 {
		if raw := os.Getenv(envName); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return 0, errors.New("invalid " + envName + " env variable")
			}
			secs = parsed
		} else {
			secs = fallback
		}
	}
	if secs <= 0 {
		return 0, errors.New(envName + " must be positive")
	}
	return time.Duration(secs) * time.Second, nil
}
