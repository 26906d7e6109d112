// Package catalog holds the compiled-in business and course data and the
// substring matcher that finds which course a message refers to.
//
// The catalog is parsed and validated once; the returned *Catalog and every
// value reachable from it are read-only and safe for concurrent use.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	domerrors "github.com/msgames/cursos-bot-go/internal/errors"
	"github.com/msgames/cursos-bot-go/internal/stringutil"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Business is the brand and contact data used by reply templates.
type Business struct {
	Brand        string `yaml:"brand" validate:"required"`
	ContactPhone string `yaml:"contact_phone" validate:"required"`
	Website      string `yaml:"website" validate:"omitempty,url"`
	Location     string `yaml:"location"`
}

// Pricing holds the human-readable offer for each modality.
// Live also carries the duration copy ("3 meses, 1 clase/semana ...").
type Pricing struct {
	Live  string `yaml:"live" validate:"required"`
	Async string `yaml:"async" validate:"required"`
}

// Course is a catalog course.
type Course struct {
	Key      string   `yaml:"key" validate:"required"`
	Name     string   `yaml:"name" validate:"required"`
	Synonyms []string `yaml:"synonyms" validate:"dive,required"`
	Pricing  Pricing  `yaml:"pricing"`
	Syllabus []string `yaml:"syllabus" validate:"min=1,dive,required"`

	// terms are the key plus normalized synonyms, in declaration order.
	terms []string
}

// UpcomingLive is the next scheduled live course. It is matched separately
// from the catalog courses through its trigger words.
type UpcomingLive struct {
	Key             string   `yaml:"key" validate:"required"`
	Name            string   `yaml:"name" validate:"required"`
	StartDate       string   `yaml:"start_date" validate:"required"`
	SessionCount    int      `yaml:"session_count" validate:"gt=0"`
	SessionDuration string   `yaml:"session_duration" validate:"required"`
	Price           string   `yaml:"price" validate:"required"`
	Syllabus        []string `yaml:"syllabus" validate:"dive,required"`
	Notes           string   `yaml:"notes"`
	Triggers        []string `yaml:"triggers" validate:"min=1,dive,required"`
}

// Catalog is the full data set.
type Catalog struct {
	Business Business     `yaml:"business"`
	Upcoming UpcomingLive `yaml:"upcoming"`
	Courses  []Course     `yaml:"courses" validate:"min=1,unique=Key,dive"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the compiled-in catalog. It panics if the embedded data is
// invalid, which can only happen through a bad edit to catalog.yaml and is
// caught by the package tests.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded catalog.yaml: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load parses and validates a catalog document.
// Unknown fields are rejected.
func Load(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", domerrors.ErrCatalogInvalid, err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("%w: %w", domerrors.ErrCatalogInvalid, err)
	}

	if err := c.prepare(); err != nil {
		return nil, fmt.Errorf("%w: %w", domerrors.ErrCatalogInvalid, err)
	}
	return &c, nil
}

// prepare normalizes match terms and enforces the invariants the struct
// tags cannot express.
func (c *Catalog) prepare() error {
	var errs []error

	triggers := make([]string, 0, len(c.Upcoming.Triggers))
	for i, trigger := range c.Upcoming.Triggers {
		n := stringutil.Normalize(trigger)
		if n == "" {
			errs = append(errs, domerrors.NewValidationError(fmt.Sprintf("upcoming.triggers[%d]", i), "empty after normalization"))
			continue
		}
		triggers = append(triggers, n)
	}
	c.Upcoming.Triggers = triggers

	seen := make(map[string]int, len(c.Courses))
	for i := range c.Courses {
		course := &c.Courses[i]
		field := fmt.Sprintf("courses[%d]", i)

		if n := stringutil.Normalize(course.Key); n != course.Key {
			errs = append(errs, domerrors.NewValidationError(field+".key", fmt.Sprintf("%q is not normalized (want %q)", course.Key, n)))
		}
		if j, dup := seen[course.Key]; dup {
			errs = append(errs, domerrors.NewValidationError(field+".key", fmt.Sprintf("duplicate of courses[%d]", j)))
		}
		seen[course.Key] = i

		course.terms = append(course.terms[:0], course.Key)
		for k, syn := range course.Synonyms {
			n := stringutil.Normalize(syn)
			if n == "" {
				errs = append(errs, domerrors.NewValidationError(fmt.Sprintf("%s.synonyms[%d]", field, k), "empty after normalization"))
				continue
			}
			course.terms = append(course.terms, n)
		}
	}

	return errors.Join(errs...)
}

// Course returns the catalog course with the given key.
func (c *Catalog) Course(key string) (*Course, bool) {
	for i := range c.Courses {
		if c.Courses[i].Key == key {
			return &c.Courses[i], true
		}
	}
	return nil, false
}

// Keys returns course keys in declaration order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.Courses))
	for i := range c.Courses {
		keys[i] = c.Courses[i].Key
	}
	return keys
}
