// Package reply renders the canned Spanish replies for resolved intents.
package reply

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/msgames/cursos-bot-go/internal/catalog"
	"github.com/msgames/cursos-bot-go/internal/intent"
)

// EmptyMessage is sent when the inbound text is empty or whitespace.
const EmptyMessage = "Escribí *menú* para ver opciones."

// Renderer builds reply text from intents. It is immutable and safe for
// concurrent use.
type Renderer struct {
	catalog *catalog.Catalog
}

// NewRenderer creates a Renderer for c.
func NewRenderer(c *catalog.Catalog) *Renderer {
	return &Renderer{catalog: c}
}

// Render returns the reply for in. Unknown kinds and course intents without
// a course are programming errors and panic.
func (r *Renderer) Render(in intent.Intent) string {
	switch in.Kind {
	case intent.KindMenu:
		return r.menu()
	case intent.KindUpcomingLive:
		return r.upcoming() + "\n\n¿Querés inscribirte? Escribí *asesor* para hablar con nosotros."
	case intent.KindListCourses:
		return r.courseList() + "\n\nTip: pedí *temario nombre* o *precio nombre* (ej: \"temario python\")."
	case intent.KindCourseOverview:
		return overview(mustCourse(in))
	case intent.KindCourseDetail:
		return detail(mustCourse(in), in.Detail)
	case intent.KindPricesPrompt:
		return "Decime *qué curso* te interesa (ej: \"precio figma\", \"precio sql\")."
	case intent.KindSyllabusPrompt:
		return "Decime *qué curso* te interesa (ej: \"temario photoshop\", \"temario python\")."
	case intent.KindContactRequest:
		return r.contact() + "\n\nTambién podés escribir *menú* para más opciones."
	case intent.KindMissingCourseReference:
		return "Decime *qué curso* te interesa para darte el precio/temario. Ej: \"precio python\", \"temario figma\"."
	case intent.KindCourseUnavailable:
		return "Si preguntás por *otro curso*, por el momento *no hay*. Podés elegir uno de la lista con \"cursos\"."
	case intent.KindFallback:
		return r.menu() + "\n\nSi querés hablar con un humano, escribí *asesor*."
	default:
		panic(fmt.Sprintf("reply: unhandled intent kind %v", in.Kind))
	}
}

func mustCourse(in intent.Intent) *catalog.Course {
	if in.Course == nil {
		panic(fmt.Sprintf("reply: %s intent without course", in.Kind))
	}
	return in.Course
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n")
}

func (r *Renderer) menu() string {
	return lines(
		fmt.Sprintf("🤖 *%s* — Cursos online de informática y programación", r.catalog.Business.Brand),
		"",
		"Escribí una palabra clave o número:",
		"1) Próximo curso en vivo (WhatsApp)",
		"2) Ver cursos disponibles",
		"3) Precios y modalidades",
		"4) Temarios",
		"5) Contacto con asesor",
		"",
		"Ejemplos: \"precio photoshop\", \"temario sql\", \"python\", \"whatsapp\".",
	)
}

func (r *Renderer) courseList() string {
	ls := make([]string, 0, len(r.catalog.Courses)+3)
	ls = append(ls, "📚 *Cursos disponibles (asincrónicos y posibles aperturas en vivo)*")
	for _, c := range r.catalog.Courses {
		ls = append(ls, fmt.Sprintf("• %s (%s)", c.Name, c.Key))
	}
	ls = append(ls, "", "Preguntá por uno con su nombre/clave. Ej: \"temario figma\", \"precio sql\".")
	return lines(ls...)
}

func (r *Renderer) upcoming() string {
	u := r.catalog.Upcoming
	return lines(
		"🎯 *Próximo curso en vivo:* "+u.Name,
		"🗓 Inicio: "+u.StartDate,
		fmt.Sprintf("📍 Clases: %d sesiones, %s", u.SessionCount, u.SessionDuration),
		"💰 Inversión única: "+u.Price,
		"ℹ️ Nota: "+u.Notes,
	)
}

func (r *Renderer) contact() string {
	return lines(
		"👤 *Hablar con asesor*",
		fmt.Sprintf("Escribinos por WhatsApp al %s.", r.catalog.Business.ContactPhone),
		"Contanos qué curso te interesa y te guiamos 🙂",
	)
}

func overview(c *catalog.Course) string {
	return lines(
		fmt.Sprintf("📘 *%s*", c.Name),
		"🧭 Modalidad en vivo: "+c.Pricing.Live,
		"💾 Asincrónico: "+c.Pricing.Async,
		"",
		"¿Querés *temario*, *precio* o *duracion*? Escribí, por ejemplo: \"temario python\" o \"precio figma\".",
	)
}

func detail(c *catalog.Course, d intent.Detail) string {
	switch d {
	case intent.DetailSyllabus:
		ls := make([]string, 0, len(c.Syllabus)+1)
		ls = append(ls, fmt.Sprintf("🧾 *Temario — %s*", c.Name))
		for i, topic := range c.Syllabus {
			ls = append(ls, strconv.Itoa(i+1)+". "+topic)
		}
		return lines(ls...)
	case intent.DetailPrice:
		return lines(
			fmt.Sprintf("💰 *Precios — %s*", c.Name),
			"• En vivo: "+c.Pricing.Live,
			"• Asincrónico: "+c.Pricing.Async,
		)
	case intent.DetailDuration:
		// Duration copy lives in the live-modality text.
		return lines(
			fmt.Sprintf("⏱️ *Duración — %s*", c.Name),
			"En vivo: "+c.Pricing.Live,
		)
	default:
		panic(fmt.Sprintf("reply: unhandled course detail %v", d))
	}
}
