// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RedisConfig provides settings for Redis (cache and job queue).
type RedisConfig interface {
	GetRedisURL() string
	IsRedisEnabled() bool
}

// SchedulerConfig provides settings for the background job worker.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetBenchmarkInterval() string
}

// ScoringConfig provides tunables for the scoring engine.
type ScoringConfig interface {
	GetHistoryWindow() int
	GetRescoreChunkSize() int
	GetProviderTimeout() time.Duration
	GetAgentMatchTopK() int
	GetPredictionJitter() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	RedisURL         string
	CORSAllowAll     bool
	CORSOrigins      []string
	CORSAllowCreds   bool
	AsynqQueueName   string
	AsynqConcurrency int
	// BenchmarkInterval is a cron expression for periodic benchmark recomputes.
	BenchmarkInterval string
	HistoryWindow     int
	RescoreChunkSize  int
	ProviderTimeout   time.Duration
	AgentMatchTopK    int
	PredictionJitter  bool
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RedisConfig implementation
func (c *Config) GetRedisURL() string { return c.RedisURL }
func (c *Config) IsRedisEnabled() bool {
	return c.RedisURL != ""
}

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string    { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int     { return c.AsynqConcurrency }
func (c *Config) GetBenchmarkInterval() string { return c.BenchmarkInterval }

// ScoringConfig implementation
func (c *Config) GetHistoryWindow() int             { return c.HistoryWindow }
func (c *Config) GetRescoreChunkSize() int          { return c.RescoreChunkSize }
func (c *Config) GetProviderTimeout() time.Duration { return c.ProviderTimeout }
func (c *Config) GetAgentMatchTopK() int            { return c.AgentMatchTopK }
func (c *Config) GetPredictionJitter() bool         { return c.PredictionJitter }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RedisURL:          getEnv("REDIS_URL", ""),
		CORSAllowAll:      corsAllowAll,
		CORSOrigins:       corsOrigins,
		CORSAllowCreds:    strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		AsynqQueueName:    getEnv("ASYNQ_QUEUE", "scoring"),
		AsynqConcurrency:  mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		BenchmarkInterval: getEnv("BENCHMARK_CRON", "@every 15m"),
		HistoryWindow:     mustInt(getEnv("SCORE_HISTORY_WINDOW", "50")),
		RescoreChunkSize:  mustInt(getEnv("RESCORE_CHUNK_SIZE", "100")),
		ProviderTimeout:   mustDuration(getEnv("PROVIDER_TIMEOUT", "2s")),
		AgentMatchTopK:    mustInt(getEnv("AGENT_MATCH_TOP_K", "3")),
		PredictionJitter:  strings.EqualFold(getEnv("PREDICTION_JITTER", "false"), "true"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.HistoryWindow < 10 {
		return nil, fmt.Errorf("SCORE_HISTORY_WINDOW must be at least 10")
	}
	if cfg.RescoreChunkSize < 1 {
		return nil, fmt.Errorf("RESCORE_CHUNK_SIZE must be positive")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
