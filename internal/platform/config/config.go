package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration. Read once at startup;
// everything downstream receives explicit values instead of ambient state.
type Config struct {
	Addr  string
	Store StoreConfig
}

// StoreConfig holds connection and resilience parameters for the backing
// key-value store.
type StoreConfig struct {
	Addr          string
	DialTimeout   time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
	CacheTTL      time.Duration
	PoolSize      int
	MinIdleConns  int
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr: envString("SCORUM_ADDR", ":8080"),
		Store: StoreConfig{
			Addr:          envString("SCORUM_STORE_ADDR", "localhost:6379"),
			DialTimeout:   envDuration("SCORUM_STORE_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:   envDuration("SCORUM_STORE_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:  envDuration("SCORUM_STORE_WRITE_TIMEOUT", 10*time.Second),
			RetryAttempts: envInt("SCORUM_STORE_RETRY_ATTEMPTS", 3),
			RetryBackoff:  envDuration("SCORUM_STORE_RETRY_BACKOFF", 100*time.Millisecond),
			CacheTTL:      envDuration("SCORUM_SCORE_CACHE_TTL", time.Hour),
			PoolSize:      envInt("SCORUM_STORE_POOL_SIZE", 10),
			MinIdleConns:  envInt("SCORUM_STORE_MIN_IDLE_CONNS", 2),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
