package catalog

import "github.com/msgames/cursos-bot-go/internal/stringutil"

// MatchKind says which part of the catalog a message referred to.
type MatchKind int

const (
	// MatchUpcoming is the upcoming live course.
	MatchUpcoming MatchKind = iota + 1
	// MatchCourse is a regular catalog course.
	MatchCourse
)

// Match is the result of a successful lookup.
// Course is nil for MatchUpcoming.
type Match struct {
	Kind   MatchKind
	Course *Course
}

// Match finds the course referenced by already-normalized text.
//
// Upcoming-course triggers are checked first. Catalog courses are then
// scanned in declaration order and the first one whose key or synonym is a
// substring of the text wins. Matching is by substring on purpose, so short
// synonyms also hit inside longer words ("ui" in "quiero").
func (c *Catalog) Match(normalized string) (Match, bool) {
	if stringutil.ContainsAny(normalized, c.Upcoming.Triggers...) {
		return Match{Kind: MatchUpcoming}, true
	}
	for i := range c.Courses {
		if stringutil.ContainsAny(normalized, c.Courses[i].terms...) {
			return Match{Kind: MatchCourse, Course: &c.Courses[i]}, true
		}
	}
	return Match{}, false
}
