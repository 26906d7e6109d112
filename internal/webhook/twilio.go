// Package webhook adapts messaging providers to the bot: it parses inbound
// webhook requests, asks the bot for a reply and sends it back in the
// provider's format.
package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/msgames/cursos-bot-go/internal/ctxutil"
	domerrors "github.com/msgames/cursos-bot-go/internal/errors"
	"github.com/msgames/cursos-bot-go/internal/logger"
	"github.com/msgames/cursos-bot-go/internal/metrics"
)

// Channel names used in logs, metrics and context.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelLINE     = "line"
)

// Replier produces the reply text for an inbound message.
type Replier interface {
	Reply(ctx context.Context, text string) string
}

// TwilioHandler answers Twilio WhatsApp webhooks with TwiML.
type TwilioHandler struct {
	replier    Replier
	logger     *logger.Logger
	metrics    *metrics.Metrics
	authToken  string
	webhookURL string
}

// TwilioConfig holds configuration for creating a new TwilioHandler.
type TwilioConfig struct {
	Replier Replier
	Logger  *logger.Logger
	Metrics *metrics.Metrics

	// AuthToken enables X-Twilio-Signature validation when non-empty.
	AuthToken string
	// WebhookURL is the public URL configured in Twilio. When empty it is
	// rebuilt from the request and forwarded headers.
	WebhookURL string
}

// NewTwilioHandler creates a new Twilio webhook handler.
func NewTwilioHandler(cfg TwilioConfig) *TwilioHandler {
	return &TwilioHandler{
		replier:    cfg.Replier,
		logger:     cfg.Logger.WithModule("twilio"),
		metrics:    cfg.Metrics,
		authToken:  cfg.AuthToken,
		webhookURL: cfg.WebhookURL,
	}
}

// Handle is the Gin handler for POST /whatsapp.
func (h *TwilioHandler) Handle(c *gin.Context) {
	start := time.Now()
	ctx := ctxutil.WithChannel(c.Request.Context(), ChannelWhatsApp)

	if err := c.Request.ParseForm(); err != nil {
		err = fmt.Errorf("%w: parse form: %w", domerrors.ErrInvalidInput, err)
		h.logger.WithError(err).WarnContext(ctx, "Failed to parse Twilio form")
		h.metrics.RecordHTTPError("bad_request", ChannelWhatsApp)
		h.metrics.RecordWebhook(ChannelWhatsApp, "error", time.Since(start).Seconds())
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	if err := h.verify(c.Request); err != nil {
		h.logger.WithError(err).WarnContext(ctx, "Rejected Twilio request")
		h.metrics.RecordHTTPError("invalid_signature", ChannelWhatsApp)
		h.metrics.RecordWebhook(ChannelWhatsApp, "rejected", time.Since(start).Seconds())
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	form := c.Request.PostForm
	ctx = ctxutil.WithSender(ctx, form.Get("From"))

	text := h.replier.Reply(ctx, form.Get("Body"))

	payload, err := MarshalTwiML(text)
	if err != nil {
		h.logger.WithError(err).ErrorContext(ctx, "Failed to build TwiML response")
		h.metrics.RecordWebhook(ChannelWhatsApp, "error", time.Since(start).Seconds())
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, TwiMLContentType, payload)

	duration := time.Since(start)
	h.metrics.RecordWebhook(ChannelWhatsApp, "success", duration.Seconds())
	h.logger.WithField("message_sid", form.Get("MessageSid")).
		WithField("duration_ms", duration.Milliseconds()).
		InfoContext(ctx, "Message answered")
}

func (h *TwilioHandler) verify(r *http.Request) error {
	if h.authToken == "" {
		return nil
	}
	fullURL := h.webhookURL
	if fullURL == "" {
		fullURL = publicURL(r)
	}
	if !ValidTwilioSignature(h.authToken, fullURL, r.PostForm, r.Header.Get(TwilioSignatureHeader)) {
		return fmt.Errorf("%w: url=%s", domerrors.ErrInvalidSignature, fullURL)
	}
	return nil
}
