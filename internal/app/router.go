package app

import (
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/msgames/cursos-bot-go/internal/ctxutil"
	"github.com/msgames/cursos-bot-go/internal/logger"
	"github.com/msgames/cursos-bot-go/internal/sentry"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

// requestIDHeaders are checked in order for an upstream request ID.
var requestIDHeaders = []string{RequestIDHeader, "X-Correlation-Id"}

func (a *Application) routes() *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		// Re-panic so gin.Recovery still answers 500.
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(a.logger))

	router.GET("/", a.status)
	router.HEAD("/", a.status)
	router.GET("/healthz", healthz)
	router.HEAD("/healthz", healthz)

	router.POST("/whatsapp", a.twilioHandler.Handle)
	if a.lineHandler != nil {
		router.POST("/line", a.lineHandler.Handle)
	}

	router.GET("/metrics",
		metricsAuthMiddleware(basicAuthCredentials{
			enabled:  a.cfg.MetricsAuthEnabled,
			username: a.cfg.MetricsUsername,
			password: a.cfg.MetricsPassword,
		}),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	return router
}

func (a *Application) status(c *gin.Context) {
	c.String(http.StatusOK, "%s — Bot activo ✅", a.catalog.Business.Brand)
}

// healthz is a liveness probe; there are no dependencies to check.
func healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")
		c.Next()
	}
}

// loggingMiddleware assigns a request ID and logs each request with a level
// chosen by status: 5xx=Error, 4xx=Warn, 404 and 2xx/3xx=Debug.
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		requestID := incomingRequestID(c)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestID(c.Request.Context(), requestID))
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		entry := log.WithRequestID(requestID).WithFields(map[string]any{
			"http_method": method,
			"http_path":   path,
			"http_status": status,
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})

		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("HTTP request failed")
		case status == http.StatusNotFound:
			entry.Debug("HTTP request not found")
		case status >= http.StatusBadRequest:
			entry.Warn("HTTP request rejected")
		default:
			entry.Debug("HTTP request completed")
		}
	}
}

// incomingRequestID returns the first usable upstream ID. Overlong values are
// ignored so a client cannot inflate every log line.
func incomingRequestID(c *gin.Context) string {
	for _, h := range requestIDHeaders {
		if id := c.GetHeader(h); id != "" && len(id) <= 128 {
			return id
		}
	}
	return ""
}
