// Package intent turns free-form inbound text into one of a closed set of
// intents by running an ordered list of keyword rules.
package intent

import "github.com/msgames/cursos-bot-go/internal/catalog"

// Kind enumerates the intents the bot understands.
type Kind int

const (
	KindFallback Kind = iota
	KindMenu
	KindListCourses
	KindUpcomingLive
	KindCourseOverview
	KindCourseDetail
	KindPricesPrompt
	KindSyllabusPrompt
	KindContactRequest
	KindMissingCourseReference
	KindCourseUnavailable
)

var kindNames = [...]string{
	KindFallback:               "fallback",
	KindMenu:                   "menu",
	KindListCourses:            "list_courses",
	KindUpcomingLive:           "upcoming_live",
	KindCourseOverview:         "course_overview",
	KindCourseDetail:           "course_detail",
	KindPricesPrompt:           "prices_prompt",
	KindSyllabusPrompt:         "syllabus_prompt",
	KindContactRequest:         "contact_request",
	KindMissingCourseReference: "missing_course_reference",
	KindCourseUnavailable:      "course_unavailable",
}

// String returns the snake_case name used in logs and metric labels.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Kinds lists every defined intent kind.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Detail is the aspect of a course the user asked about.
type Detail int

const (
	DetailNone Detail = iota
	DetailPrice
	DetailSyllabus
	DetailDuration
)

func (d Detail) String() string {
	switch d {
	case DetailPrice:
		return "price"
	case DetailSyllabus:
		return "syllabus"
	case DetailDuration:
		return "duration"
	default:
		return "none"
	}
}

// Intent is the resolved meaning of a message.
// Course is set only for KindCourseOverview and KindCourseDetail;
// Detail only for KindCourseDetail.
type Intent struct {
	Kind   Kind
	Course *catalog.Course
	Detail Detail
}

// Label is Kind.String with the detail appended for course details,
// e.g. "course_detail:price".
func (i Intent) Label() string {
	if i.Kind == KindCourseDetail {
		return i.Kind.String() + ":" + i.Detail.String()
	}
	return i.Kind.String()
}
