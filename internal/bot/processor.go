// Package bot turns inbound message text into reply text. It is the
// channel-independent core shared by every webhook adapter.
package bot

import (
	"context"
	"strings"
	"time"

	"github.com/msgames/cursos-bot-go/internal/config"
	"github.com/msgames/cursos-bot-go/internal/ctxutil"
	"github.com/msgames/cursos-bot-go/internal/intent"
	"github.com/msgames/cursos-bot-go/internal/logger"
	"github.com/msgames/cursos-bot-go/internal/metrics"
	"github.com/msgames/cursos-bot-go/internal/reply"
	"github.com/msgames/cursos-bot-go/internal/stringutil"
)

// Processor resolves inbound text and renders the reply.
// It keeps no per-conversation state and is safe for concurrent use.
type Processor struct {
	resolver         *intent.Resolver
	renderer         *reply.Renderer
	logger           *logger.Logger
	metrics          *metrics.Metrics
	maxMessageLength int
}

// ProcessorConfig holds configuration for creating a new Processor.
type ProcessorConfig struct {
	Resolver         *intent.Resolver
	Renderer         *reply.Renderer
	Logger           *logger.Logger
	Metrics          *metrics.Metrics // optional
	MaxMessageLength int              // bytes; defaults to config.MaxMessageLength
}

// NewProcessor creates a new message processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	maxLen := cfg.MaxMessageLength
	if maxLen <= 0 {
		maxLen = config.MaxMessageLength
	}
	return &Processor{
		resolver:         cfg.Resolver,
		renderer:         cfg.Renderer,
		logger:           cfg.Logger,
		metrics:          cfg.Metrics,
		maxMessageLength: maxLen,
	}
}

// Reply returns the reply text for an inbound message.
// Empty or whitespace-only text gets the menu hint without resolving.
func (p *Processor) Reply(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		p.metrics.RecordIntent("empty")
		return reply.EmptyMessage
	}

	log := p.logger.WithModule("bot")

	if truncated, cut := stringutil.TruncateBytes(text, p.maxMessageLength); cut {
		log.WithField("text_length", len(text)).
			WithField("max_length", p.maxMessageLength).
			WarnContext(ctx, "Inbound message truncated")
		p.metrics.RecordTruncation(ctxutil.GetChannel(ctx))
		text = truncated
	}

	start := time.Now()
	in := p.resolver.Resolve(text)
	out := p.renderer.Render(in)

	p.metrics.RecordIntent(in.Kind.String())

	entry := log.WithField("intent", in.Label()).
		WithField("text_length", len(text)).
		WithField("reply_length", len(out)).
		WithField("duration_us", time.Since(start).Microseconds())
	if in.Course != nil {
		entry = entry.WithField("course", in.Course.Key)
	}
	entry.DebugContext(ctx, "Intent resolved")

	return out
}
