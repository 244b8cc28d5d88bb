package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// defaultAccounts is the account set seeded when ACCOUNTS is not set, as
// id:limit pairs in minor units.
const defaultAccounts = "1:100000,2:80000,3:1000000,4:10000000,5:500000"

// SeedAccount is an account registered in the store at boot.
type SeedAccount struct {
	ID    int64
	Limit int64
}

type Config struct {
	HTTPAddr        string
	DatabaseURL     string
	KafkaBrokers    []string
	KafkaTopic      string
	ShutdownTimeout time.Duration
	Accounts        []SeedAccount
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		KafkaTopic:      env("KAFKA_TOPIC", "movement_applied"),
		ShutdownTimeout: 10 * time.Second,
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	accounts, err := ParseAccounts(env("ACCOUNTS", defaultAccounts))
	if err != nil {
		return Config{}, err
	}
	cfg.Accounts = accounts

	return cfg, nil
}

// ParseAccounts parses a comma-separated list of id:limit pairs.
func ParseAccounts(spec string) ([]SeedAccount, error) {
	var out []SeedAccount
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idStr, limitStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("account seed %q: want id:limit", part)
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("account seed %q: %w", part, err)
		}
		limit, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("account seed %q: %w", part, err)
		}
		if limit < 0 {
			return nil, fmt.Errorf("account seed %q: limit must be non-negative", part)
		}
		out = append(out, SeedAccount{ID: id, Limit: limit})
	}
	return out, nil
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
