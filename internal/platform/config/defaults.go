package config

const (
	defaultServerPort = 8080

	defaultWebhookQueueSize  = 16
	defaultWebhookMaxWorkers = 4

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultNATSMaxReconnects = 5
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "0s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "projectboard",

		"webhook.enabled":                                false,
		"webhook.targets":                                []string{},
		"webhook.secret":                                 "",
		"webhook.queue_size":                             defaultWebhookQueueSize,
		"webhook.max_workers":                            defaultWebhookMaxWorkers,
		"webhook.client.timeout":                         "10s",
		"webhook.client.retry.max_attempts":              defaultRetryMaxAttempts,
		"webhook.client.retry.initial_interval":          "100ms",
		"webhook.client.retry.max_interval":              "5s",
		"webhook.client.retry.multiplier":                defaultRetryMultiplier,
		"webhook.client.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"webhook.client.circuit_breaker.timeout":         "30s",
		"webhook.client.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"webhook.client.rate_limit.requests_per_second":  0,
		"webhook.client.rate_limit.burst_size":           1,

		"nats.enabled":        false,
		"nats.url":            "nats://localhost:4222",
		"nats.subject_prefix": "projects",
		"nats.max_reconnects": defaultNATSMaxReconnects,
		"nats.reconnect_wait": "1s",
	}
}
