package intent

import (
	"strings"

	"github.com/msgames/cursos-bot-go/internal/catalog"
	"github.com/msgames/cursos-bot-go/internal/stringutil"
)

// Keyword sets. Substring sets are matched anywhere in the normalized text;
// token sets only match whole words.
var (
	menuKeywords         = []string{"menu", "inicio", "ayuda", "opciones", "#menu"}
	contactKeywords      = []string{"asesor", "humano", "contacto", "vendedor"}
	upcomingKeywords     = []string{"proximo", "en vivo", "whatsapp", "chatbot"}
	priceTokens          = []string{"precio", "precios", "costo", "tarifa"}
	syllabusTokens       = []string{"temario", "temarios", "contenido"}
	durationTokens       = []string{"duracion", "dura"}
	genericPriceWords    = []string{"precios", "costo", "tarifas"}
	genericSyllabusWords = []string{"temario", "temarios", "contenido"}
	listKeywords         = []string{"cursos", "catalogo", "lista"}
	unavailableHints     = []string{"curso de ", "tienen ", "hay "}
)

// menuOptions maps the numbered main-menu entries to intents.
var menuOptions = map[string]Kind{
	"1": KindUpcomingLive,
	"2": KindListCourses,
	"3": KindPricesPrompt,
	"4": KindSyllabusPrompt,
	"5": KindContactRequest,
}

// query is the per-message state shared by the rules.
type query struct {
	text   string
	tokens []string
	detail Detail
	match  catalog.Match
	found  bool
}

type rule struct {
	name    string
	matches func(*query) bool
	intent  func(*query) Intent
}

func is(kind Kind) func(*query) Intent {
	return func(*query) Intent { return Intent{Kind: kind} }
}

func containsAny(words []string) func(*query) bool {
	return func(q *query) bool { return stringutil.ContainsAny(q.text, words...) }
}

// Resolver classifies messages against a catalog.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	catalog *catalog.Catalog
	rules   []rule
}

// NewResolver creates a Resolver for c.
func NewResolver(c *catalog.Catalog) *Resolver {
	return &Resolver{catalog: c, rules: defaultRules()}
}

// defaultRules is the ordered rule list; the first matching rule wins.
func defaultRules() []rule {
	return []rule{
		{
			name: "menu_option",
			matches: func(q *query) bool {
				_, ok := menuOptions[q.text]
				return ok
			},
			intent: func(q *query) Intent { return Intent{Kind: menuOptions[q.text]} },
		},
		{name: "menu_keyword", matches: containsAny(menuKeywords), intent: is(KindMenu)},
		{name: "contact_keyword", matches: containsAny(contactKeywords), intent: is(KindContactRequest)},
		{name: "upcoming_keyword", matches: containsAny(upcomingKeywords), intent: is(KindUpcomingLive)},
		{
			name:    "detail_with_course",
			matches: func(q *query) bool { return q.detail != DetailNone && q.found },
			intent: func(q *query) Intent {
				if q.match.Kind == catalog.MatchUpcoming {
					return Intent{Kind: KindUpcomingLive}
				}
				return Intent{Kind: KindCourseDetail, Course: q.match.Course, Detail: q.detail}
			},
		},
		{
			name:    "detail_without_course",
			matches: func(q *query) bool { return q.detail != DetailNone },
			intent:  is(KindMissingCourseReference),
		},
		{
			name:    "course_mention",
			matches: func(q *query) bool { return q.found },
			intent: func(q *query) Intent {
				if q.match.Kind == catalog.MatchUpcoming {
					return Intent{Kind: KindUpcomingLive}
				}
				return Intent{Kind: KindCourseOverview, Course: q.match.Course}
			},
		},
		{name: "generic_prices", matches: containsAny(genericPriceWords), intent: is(KindPricesPrompt)},
		{name: "generic_syllabus", matches: containsAny(genericSyllabusWords), intent: is(KindSyllabusPrompt)},
		{name: "list_keyword", matches: containsAny(listKeywords), intent: is(KindListCourses)},
		{name: "unavailable_course", matches: containsAny(unavailableHints), intent: is(KindCourseUnavailable)},
	}
}

// Resolve classifies raw inbound text. It is total: text that no rule
// recognizes resolves to KindFallback.
func (r *Resolver) Resolve(raw string) Intent {
	intent, _ := r.resolve(raw)
	return intent
}

// resolve also returns the name of the rule that fired, or "" for fallback.
func (r *Resolver) resolve(raw string) (Intent, string) {
	q := r.newQuery(raw)
	for _, rl := range r.rules {
		if rl.matches(q) {
			return rl.intent(q), rl.name
		}
	}
	return Intent{Kind: KindFallback}, ""
}

func (r *Resolver) newQuery(raw string) *query {
	text := stringutil.Normalize(raw)
	q := &query{text: text, tokens: strings.Split(text, " ")}

	// Price outranks syllabus, which outranks duration.
	switch {
	case stringutil.HasAnyToken(q.tokens, priceTokens...):
		q.detail = DetailPrice
	case stringutil.HasAnyToken(q.tokens, syllabusTokens...):
		q.detail = DetailSyllabus
	case stringutil.HasAnyToken(q.tokens, durationTokens...):
		q.detail = DetailDuration
	}

	q.match, q.found = r.catalog.Match(text)
	return q
}
