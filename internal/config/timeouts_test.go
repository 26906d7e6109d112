package config

import (
	"testing"
	"time"
)

func TestHTTPTimeouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		got      time.Duration
		expected time.Duration
	}{
		{"WebhookHTTPRead", WebhookHTTPRead, 10 * time.Second},
		{"WebhookHTTPReadHeader", WebhookHTTPReadHeader, 5 * time.Second},
		{"WebhookHTTPWrite", WebhookHTTPWrite, 15 * time.Second},
		{"WebhookHTTPIdle", WebhookHTTPIdle, 120 * time.Second},
		{"LINEReplyTimeout", LINEReplyTimeout, 10 * time.Second},
		{"GracefulShutdown", GracefulShutdown, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

// Twilio drops webhook calls that take longer than 15s.
func TestWriteTimeoutWithinTwilioLimit(t *testing.T) {
	t.Parallel()

	if WebhookHTTPWrite > 15*time.Second {
		t.Errorf("WebhookHTTPWrite = %v exceeds Twilio's 15s webhook limit", WebhookHTTPWrite)
	}
	if WebhookHTTPReadHeader > WebhookHTTPRead {
		t.Errorf("WebhookHTTPReadHeader (%v) should not exceed WebhookHTTPRead (%v)", WebhookHTTPReadHeader, WebhookHTTPRead)
	}
}
