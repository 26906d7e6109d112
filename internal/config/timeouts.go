// Package config provides centralized timeout constants for the application.
//
// Twilio waits up to 15 seconds for a webhook response before giving up, and
// LINE expects a quick 200 OK. Replies are computed in memory, so the HTTP
// timeouts only need to cover slow clients.
package config

import "time"

// HTTP server timeouts
const (
	// WebhookHTTPRead is the HTTP server read timeout.
	// Provider payloads are small form or JSON bodies.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPReadHeader bounds header reads separately from the body.
	WebhookHTTPReadHeader = 5 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout.
	WebhookHTTPWrite = 15 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	WebhookHTTPIdle = 120 * time.Second
)

// LINE reply API
const (
	// LINEReplyTimeout bounds a single reply API call made from the LINE webhook.
	LINEReplyTimeout = 10 * time.Second
)

// Graceful shutdown
const (
	// GracefulShutdown is the default timeout for graceful server shutdown.
	GracefulShutdown = 30 * time.Second
)

// Healthcheck
const (
	// HealthcheckProbe is the timeout used by the container healthcheck binary.
	HealthcheckProbe = 3 * time.Second
)
