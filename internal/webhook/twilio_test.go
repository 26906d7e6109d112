package webhook

import (
	"bytes"
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgames/cursos-bot-go/internal/bot"
	"github.com/msgames/cursos-bot-go/internal/catalog"
	"github.com/msgames/cursos-bot-go/internal/ctxutil"
	"github.com/msgames/cursos-bot-go/internal/intent"
	"github.com/msgames/cursos-bot-go/internal/logger"
	"github.com/msgames/cursos-bot-go/internal/metrics"
	"github.com/msgames/cursos-bot-go/internal/reply"
)

func newTestProcessor(log *logger.Logger, m *metrics.Metrics) *bot.Processor {
	c := catalog.Default()
	return bot.NewProcessor(bot.ProcessorConfig{
		Resolver: intent.NewResolver(c),
		Renderer: reply.NewRenderer(c),
		Logger:   log,
		Metrics:  m,
	})
}

type twilioFixture struct {
	router  *gin.Engine
	metrics *metrics.Metrics
	logs    *bytes.Buffer
	proc    *bot.Processor
}

func setupTwilio(t *testing.T, authToken, webhookURL string) *twilioFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var logs bytes.Buffer
	log := logger.NewWithWriter("debug", &logs)
	m := metrics.New(prometheus.NewRegistry())
	proc := newTestProcessor(log, m)

	h := NewTwilioHandler(TwilioConfig{
		Replier:    proc,
		Logger:     log,
		Metrics:    m,
		AuthToken:  authToken,
		WebhookURL: webhookURL,
	})

	router := gin.New()
	router.POST("/whatsapp", h.Handle)
	return &twilioFixture{router: router, metrics: m, logs: &logs, proc: proc}
}

func postForm(router http.Handler, target string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeTwiML(t *testing.T, body []byte) []string {
	t.Helper()
	var resp twimlResponse
	require.NoError(t, xml.Unmarshal(body, &resp))
	out := make([]string, len(resp.Messages))
	for i, m := range resp.Messages {
		out[i] = m.Body
	}
	return out
}

func TestTwilioHandle_Replies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantPrefix string
	}{
		{"price detail", "precio photoshop", "💰 *Precios — Photoshop básico-intermedio*"},
		{"syllabus detail", "Temário Sql", "🧾 *Temario — SQL básico-intermedio*"},
		{"upcoming", "chatbot", "🎯 *Próximo curso en vivo:*"},
		{"menu option", " 2 ", "📚 *Cursos disponibles"},
		{"fallback", "asdkjalksd", "🤖 *MS Games*"},
		{"empty body", "   ", "Escribí *menú* para ver opciones."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := setupTwilio(t, "", "")

			w := postForm(f.router, "/whatsapp", url.Values{
				"Body":       {tt.body},
				"From":       {"whatsapp:+50689028220"},
				"MessageSid": {"SM0001"},
			}, nil)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, TwiMLContentType, w.Header().Get("Content-Type"))
			assert.True(t, strings.HasPrefix(w.Body.String(), xml.Header), "missing XML declaration")

			msgs := decodeTwiML(t, w.Body.Bytes())
			require.Len(t, msgs, 1)
			assert.True(t, strings.HasPrefix(msgs[0], tt.wantPrefix), "reply %q does not start with %q", msgs[0], tt.wantPrefix)
		})
	}
}

func TestTwilioHandle_MatchesProcessor(t *testing.T) {
	t.Parallel()
	f := setupTwilio(t, "", "")

	w := postForm(f.router, "/whatsapp", url.Values{"Body": {"tienen curso de excel"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	want := f.proc.Reply(context.Background(), "tienen curso de excel")
	assert.Equal(t, []string{want}, decodeTwiML(t, w.Body.Bytes()))
}

func TestTwilioHandle_MissingBodyField(t *testing.T) {
	t.Parallel()
	f := setupTwilio(t, "", "")

	w := postForm(f.router, "/whatsapp", url.Values{"From": {"whatsapp:+1"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{reply.EmptyMessage}, decodeTwiML(t, w.Body.Bytes()))
}

func TestTwilioHandle_LogsMaskedSender(t *testing.T) {
	t.Parallel()
	f := setupTwilio(t, "", "")

	postForm(f.router, "/whatsapp", url.Values{
		"Body":       {"python"},
		"From":       {"whatsapp:+50689028220"},
		"MessageSid": {"SM42"},
	}, nil)

	logs := f.logs.String()
	assert.Contains(t, logs, `"message_sid":"SM42"`)
	assert.Contains(t, logs, `"channel":"whatsapp"`)
	assert.Contains(t, logs, ctxutil.MaskSender("whatsapp:+50689028220"))
	assert.NotContains(t, logs, "+50689028220")
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.WebhookRequestsTotal.WithLabelValues(ChannelWhatsApp, "success")))
}

func TestTwilioHandle_Signature(t *testing.T) {
	t.Parallel()

	form := url.Values{
		"Body":       {"precio python"},
		"From":       {"whatsapp:+50689028220"},
		"MessageSid": {"SM123"},
	}
	const validSig = "s3itJw7zFpfWyYV44UfvlZQyDFQ=" // secret, https://bot.example.com/whatsapp

	tests := []struct {
		name       string
		webhookURL string
		target     string
		headers    map[string]string
		wantStatus int
	}{
		{
			name:       "configured url",
			webhookURL: "https://bot.example.com/whatsapp",
			target:     "http://10.0.0.5:3000/whatsapp",
			headers:    map[string]string{TwilioSignatureHeader: validSig},
			wantStatus: http.StatusOK,
		},
		{
			name:       "url from forwarded headers",
			target:     "http://bot.example.com/whatsapp",
			headers:    map[string]string{TwilioSignatureHeader: validSig, "X-Forwarded-Proto": "https"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "scheme mismatch",
			target:     "http://bot.example.com/whatsapp",
			headers:    map[string]string{TwilioSignatureHeader: validSig},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing signature",
			webhookURL: "https://bot.example.com/whatsapp",
			target:     "/whatsapp",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "bad signature",
			webhookURL: "https://bot.example.com/whatsapp",
			target:     "/whatsapp",
			headers:    map[string]string{TwilioSignatureHeader: "AAAA"},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := setupTwilio(t, "secret", tt.webhookURL)

			w := postForm(f.router, tt.target, form, tt.headers)
			assert.Equal(t, tt.wantStatus, w.Code)

			rejected := testutil.ToFloat64(f.metrics.HTTPErrorsTotal.WithLabelValues("invalid_signature", ChannelWhatsApp))
			if tt.wantStatus == http.StatusForbidden {
				assert.Equal(t, float64(1), rejected)
				assert.Empty(t, w.Body.String())
			} else {
				assert.Equal(t, float64(0), rejected)
				assert.Equal(t, TwiMLContentType, w.Header().Get("Content-Type"))
			}
		})
	}
}
