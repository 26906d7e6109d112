package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/msgames/cursos-bot-go/internal/config"
	"github.com/msgames/cursos-bot-go/internal/ctxutil"
	domerrors "github.com/msgames/cursos-bot-go/internal/errors"
	"github.com/msgames/cursos-bot-go/internal/logger"
	"github.com/msgames/cursos-bot-go/internal/metrics"
	"github.com/msgames/cursos-bot-go/internal/sentry"
)

// maxEventsPerWebhook bounds how many events of one callback are answered.
const maxEventsPerWebhook = 100

// lineReplier is the subset of the Messaging API the handler uses.
type lineReplier interface {
	ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// LINEHandler answers LINE text messages through the reply API.
type LINEHandler struct {
	channelSecret string
	client        lineReplier
	replier       Replier
	logger        *logger.Logger
	metrics       *metrics.Metrics
	wg            sync.WaitGroup // async event processing
}

// LINEConfig holds configuration for creating a new LINEHandler.
type LINEConfig struct {
	ChannelSecret string
	ChannelToken  string
	Replier       Replier
	Logger        *logger.Logger
	Metrics       *metrics.Metrics
}

// NewLINEHandler creates a new LINE webhook handler.
func NewLINEHandler(cfg LINEConfig) (*LINEHandler, error) {
	client, err := messaging_api.NewMessagingApiAPI(
		cfg.ChannelToken,
		messaging_api.WithHTTPClient(&http.Client{Timeout: config.LINEReplyTimeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("create messaging API client: %w", err)
	}
	return newLINEHandler(cfg, client), nil
}

func newLINEHandler(cfg LINEConfig, client lineReplier) *LINEHandler {
	return &LINEHandler{
		channelSecret: cfg.ChannelSecret,
		client:        client,
		replier:       cfg.Replier,
		logger:        cfg.Logger.WithModule("line"),
		metrics:       cfg.Metrics,
	}
}

// Handle is the Gin handler for POST /line.
func (h *LINEHandler) Handle(c *gin.Context) {
	ctx := ctxutil.WithChannel(c.Request.Context(), ChannelLINE)

	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.WithError(domerrors.ErrInvalidSignature).WarnContext(ctx, "Invalid LINE webhook signature")
			h.metrics.RecordHTTPError("invalid_signature", ChannelLINE)
			c.Status(http.StatusBadRequest)
		} else {
			h.logger.WithError(err).ErrorContext(ctx, "Failed to parse LINE webhook request")
			h.metrics.RecordHTTPError("bad_request", ChannelLINE)
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	// LINE expects a quick 200; replies go out in the background.
	c.Status(http.StatusOK)

	events := cb.Events
	if len(events) > maxEventsPerWebhook {
		h.logger.WithField("event_count", len(events)).
			WithField("limit", maxEventsPerWebhook).
			WarnContext(ctx, "Too many events in webhook batch; truncating")
		events = events[:maxEventsPerWebhook]
	}
	events = append([]webhook.EventInterface(nil), events...)

	bgCtx := context.WithoutCancel(ctx)
	h.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.WithField("panic", r).ErrorContext(bgCtx, "Panic in LINE event processing")
				sentry.CaptureExceptionWithContext(bgCtx, fmt.Errorf("line event panic: %v", r))
			}
		}()
		for _, event := range events {
			h.processEvent(bgCtx, event)
		}
	})
}

// processEvent answers one text message event. Other events are ignored.
func (h *LINEHandler) processEvent(ctx context.Context, event webhook.EventInterface) {
	start := time.Now()

	e, ok := event.(webhook.MessageEvent)
	if !ok {
		h.logger.WithField("event_type", fmt.Sprintf("%T", event)).DebugContext(ctx, "Unsupported event type")
		return
	}
	textMsg, ok := e.Message.(webhook.TextMessageContent)
	if !ok {
		h.logger.WithField("message_type", e.Message.GetType()).DebugContext(ctx, "Ignoring non-text message")
		return
	}

	ctx = ctxutil.WithSender(ctx, SenderID(e.Source))
	log := h.logger
	if e.WebhookEventId != "" {
		log = log.WithField("event_id", e.WebhookEventId)
	}

	if e.ReplyToken == "" {
		log.DebugContext(ctx, "Empty reply token, skipping reply")
		return
	}

	text := h.replier.Reply(ctx, textMsg.Text)

	if _, err := h.client.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: e.ReplyToken,
		Messages:   []messaging_api.MessageInterface{newLINETextMessage(text)},
	}); err != nil {
		err = domerrors.NewDeliveryError(ChannelLINE, err)
		log.WithError(err).ErrorContext(ctx, "Failed to send reply")
		h.metrics.RecordHTTPError("reply_failed", ChannelLINE)
		h.metrics.RecordWebhook(ChannelLINE, "error", time.Since(start).Seconds())
		sentry.CaptureExceptionWithContext(ctx, err)
		return
	}

	duration := time.Since(start)
	h.metrics.RecordWebhook(ChannelLINE, "success", duration.Seconds())
	log.WithField("duration_ms", duration.Milliseconds()).InfoContext(ctx, "Message answered")
}

// SenderID extracts the user ID from a LINE source, whatever the chat type.
func SenderID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	}
	return ""
}

// Shutdown waits for all async event processing to complete.
// It returns an error if the context is canceled before completion.
func (h *LINEHandler) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
