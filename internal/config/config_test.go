package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:             "3000",
		LogLevel:         "info",
		ShutdownTimeout:  30 * time.Second,
		SentrySampleRate: 1.0,
		MetricsUsername:  "prometheus",
		MaxMessageLength: MaxMessageLength,
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		EnvPort, EnvLogLevel, EnvShutdownTimeout, EnvTwilioAuthToken, EnvTwilioWebhookURL,
		EnvLineChannelSecret, EnvLineChannelAccessToken, EnvSentryDSN, EnvSentrySampleRate,
		EnvMetricsAuthEnabled, EnvMetricsUsername, EnvMetricsPassword,
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Expected default port '3000', got '%s'", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.ShutdownTimeout != GracefulShutdown {
		t.Errorf("Expected default shutdown timeout %v, got %v", GracefulShutdown, cfg.ShutdownTimeout)
	}
	if cfg.MetricsUsername != "prometheus" {
		t.Errorf("Expected default metrics username 'prometheus', got '%s'", cfg.MetricsUsername)
	}
	if cfg.MaxMessageLength != 4096 {
		t.Errorf("Expected max message length 4096, got %d", cfg.MaxMessageLength)
	}
	if cfg.LINEEnabled() {
		t.Error("LINE should be disabled without credentials")
	}
	if cfg.TwilioSignatureEnabled() {
		t.Error("Twilio signature validation should be disabled without a token")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv(EnvPort, "8080")
	t.Setenv(EnvShutdownTimeout, "5s")
	t.Setenv(EnvTwilioAuthToken, "twilio-token")
	t.Setenv(EnvLineChannelSecret, "secret")
	t.Setenv(EnvLineChannelAccessToken, "token")
	t.Setenv(EnvSentrySampleRate, "0.25")
	t.Setenv(EnvMetricsAuthEnabled, "true")
	t.Setenv(EnvMetricsPassword, "hunter2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 5s", cfg.ShutdownTimeout)
	}
	if cfg.SentrySampleRate != 0.25 {
		t.Errorf("SentrySampleRate = %v, want 0.25", cfg.SentrySampleRate)
	}
	if !cfg.LINEEnabled() || !cfg.TwilioSignatureEnabled() || !cfg.MetricsAuthEnabled {
		t.Errorf("expected LINE, Twilio signature and metrics auth enabled: %+v", cfg)
	}
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv(EnvShutdownTimeout, "soon")
	t.Setenv(EnvSentrySampleRate, "lots")
	t.Setenv(EnvMetricsAuthEnabled, "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ShutdownTimeout != GracefulShutdown {
		t.Errorf("ShutdownTimeout = %v, want %v", cfg.ShutdownTimeout, GracefulShutdown)
	}
	if cfg.SentrySampleRate != 1.0 {
		t.Errorf("SentrySampleRate = %v, want 1.0", cfg.SentrySampleRate)
	}
	if cfg.MetricsAuthEnabled {
		t.Error("MetricsAuthEnabled should fall back to false")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains []string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:        "non-numeric port",
			mutate:      func(c *Config) { c.Port = "http" },
			errContains: []string{EnvPort},
		},
		{
			name:        "port out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			errContains: []string{EnvPort},
		},
		{
			name:        "zero shutdown timeout",
			mutate:      func(c *Config) { c.ShutdownTimeout = 0 },
			errContains: []string{EnvShutdownTimeout},
		},
		{
			name:        "LINE secret without token",
			mutate:      func(c *Config) { c.LineChannelSecret = "secret" },
			errContains: []string{EnvLineChannelSecret},
		},
		{
			name: "LINE fully configured",
			mutate: func(c *Config) {
				c.LineChannelSecret = "secret"
				c.LineChannelToken = "token"
			},
		},
		{
			name:        "sample rate above one",
			mutate:      func(c *Config) { c.SentrySampleRate = 1.5 },
			errContains: []string{EnvSentrySampleRate},
		},
		{
			name:        "metrics auth without password",
			mutate:      func(c *Config) { c.MetricsAuthEnabled = true },
			errContains: []string{EnvMetricsPassword},
		},
		{
			name: "multiple errors are joined",
			mutate: func(c *Config) {
				c.Port = ""
				c.SentrySampleRate = -1
			},
			errContains: []string{EnvPort, EnvSentrySampleRate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if len(tt.errContains) == 0 {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			for _, want := range tt.errContains {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Validate() error = %v, want it to mention %q", err, want)
				}
			}
		})
	}
}
