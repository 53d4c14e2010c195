// Package config loads projectboard settings. Values are layered in order:
// compiled defaults, configs/base.yaml, configs/{profile}.yaml, then APP_*
// environment variables. Later layers win.
package config

import "time"

// Config is the root of the settings tree.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Webhook   WebhookConfig   `koanf:"webhook"`
	NATS      NATSConfig      `koanf:"nats"`
}

// WebhookConfig controls delivery of project snapshots to HTTP receivers.
// Secret, when set, signs each body with HMAC-SHA256.
type WebhookConfig struct {
	Enabled    bool         `koanf:"enabled"`
	Targets    []string     `koanf:"targets"`
	Secret     string       `koanf:"secret"`
	QueueSize  int          `koanf:"queue_size"`
	MaxWorkers int          `koanf:"max_workers"`
	Client     ClientConfig `koanf:"client"`
}

// NATSConfig controls publishing of change events to NATS subjects
// "<SubjectPrefix>.snapshot" and "<SubjectPrefix>.added".
type NATSConfig struct {
	Enabled       bool          `koanf:"enabled"`
	URL           string        `koanf:"url"`
	SubjectPrefix string        `koanf:"subject_prefix"`
	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
}

// ClientConfig tunes the resilient outbound HTTP client.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig is an exponential backoff policy. MaxAttempts counts the
// first try.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig opens the breaker after MaxFailures consecutive
// failures and probes again after Timeout.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig is a token bucket. Zero RequestsPerSecond disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// ServerConfig holds listener settings. A zero WriteTimeout is required
// for long-lived event streams.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LogConfig selects slog level and handler format ("json" or "text").
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry exporter settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
