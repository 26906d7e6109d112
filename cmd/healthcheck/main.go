// Command healthcheck probes the local /healthz endpoint and exits non-zero
// when the server is not answering. It is meant for container HEALTHCHECK.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/msgames/cursos-bot-go/internal/config"
)

func main() {
	port := os.Getenv(config.EnvPort)
	if port == "" {
		port = config.DefaultPort
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.HealthcheckProbe)
	defer cancel()

	if err := probe(ctx, fmt.Sprintf("http://127.0.0.1:%s/healthz", port)); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probe %s: status %d", url, resp.StatusCode)
	}
	return nil
}
