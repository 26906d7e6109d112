package catalog

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"

	domerrors "github.com/msgames/cursos-bot-go/internal/errors"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	c := Default()
	if c == nil {
		t.Fatal("Default() returned nil")
	}

	if c.Business.Brand != "MS Games" {
		t.Errorf("Brand = %q, want %q", c.Business.Brand, "MS Games")
	}
	if c.Business.ContactPhone != "+506 8902 8220" {
		t.Errorf("ContactPhone = %q", c.Business.ContactPhone)
	}

	wantKeys := []string{"python", "sql", "photoshop", "figma", "videojuegos"}
	gotKeys := c.Keys()
	if strings.Join(gotKeys, ",") != strings.Join(wantKeys, ",") {
		t.Errorf("Keys() = %v, want %v", gotKeys, wantKeys)
	}

	if c.Upcoming.SessionCount != 3 || c.Upcoming.Price != "₡5.650" {
		t.Errorf("unexpected upcoming course: %+v", c.Upcoming)
	}
	if strings.Join(c.Upcoming.Triggers, ",") != "whatsapp,chatbot,bot" {
		t.Errorf("Upcoming.Triggers = %v", c.Upcoming.Triggers)
	}

	sql, ok := c.Course("sql")
	if !ok {
		t.Fatal("Course(sql) not found")
	}
	if len(sql.Syllabus) != 6 || sql.Syllabus[1] != "JOINs (INNER/LEFT/RIGHT/FULL)" {
		t.Errorf("unexpected sql syllabus: %v", sql.Syllabus)
	}
	if sql.Pricing.Async != "₡22.600" {
		t.Errorf("sql async price = %q", sql.Pricing.Async)
	}

	if _, ok := c.Course("excel"); ok {
		t.Error("Course(excel) should not exist")
	}
}

func TestDefault_SameInstanceAcrossGoroutines(t *testing.T) {
	t.Parallel()

	first := Default()
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			if Default() != first {
				t.Error("Default() returned a different instance")
			}
		})
	}
	wg.Wait()
}

func TestDefault_TermsAreNormalized(t *testing.T) {
	t.Parallel()

	photoshop, _ := Default().Course("photoshop")
	want := []string{"photoshop", "photoshop", "ps", "edicion de imagenes"}
	if strings.Join(photoshop.terms, "|") != strings.Join(want, "|") {
		t.Errorf("photoshop terms = %v, want %v", photoshop.terms, want)
	}
}

const minimalCourse = `
  - key: python
    name: Python
    synonyms: [py]
    pricing: {live: "3 meses", async: "₡1"}
    syllabus: [Intro]
`

func catalogDoc(courses string) []byte {
	return []byte(`
business:
  brand: Test
  contact_phone: "+1 555"
upcoming:
  key: bot
  name: Bots
  start_date: hoy
  session_count: 1
  session_duration: 1h
  price: "₡1"
  triggers: [bot]
courses:` + courses)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		data        []byte
		wantErr     bool
		errContains string
	}{
		{
			name: "minimal valid catalog",
			data: catalogDoc(minimalCourse),
		},
		{
			name:        "malformed yaml",
			data:        []byte("business: [unterminated"),
			wantErr:     true,
			errContains: "decode",
		},
		{
			name:        "unknown field",
			data:        append(catalogDoc(minimalCourse), []byte("extra: true\n")...),
			wantErr:     true,
			errContains: "extra",
		},
		{
			name:        "no courses",
			data:        catalogDoc(" []"),
			wantErr:     true,
			errContains: "Courses",
		},
		{
			name:        "duplicate keys",
			data:        catalogDoc(minimalCourse + minimalCourse),
			wantErr:     true,
			errContains: "unique",
		},
		{
			name: "key not normalized",
			data: catalogDoc(`
  - key: Python
    name: Python
    pricing: {live: "x", async: "y"}
    syllabus: [Intro]
`),
			wantErr:     true,
			errContains: "not normalized",
		},
		{
			name: "synonym empty after normalization",
			data: catalogDoc(`
  - key: python
    name: Python
    synonyms: ["¿?"]
    pricing: {live: "x", async: "y"}
    syllabus: [Intro]
`),
			wantErr:     true,
			errContains: "synonyms[0]",
		},
		{
			name: "missing pricing",
			data: catalogDoc(`
  - key: python
    name: Python
    syllabus: [Intro]
`),
			wantErr:     true,
			errContains: "Live",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := Load(tt.data)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Load() unexpected error: %v", err)
				}
				if c == nil || len(c.Courses) == 0 {
					t.Fatal("Load() returned empty catalog")
				}
				return
			}

			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !errors.Is(err, domerrors.ErrCatalogInvalid) {
				t.Errorf("error should wrap ErrCatalogInvalid: %v", err)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %v, want it to contain %q", err, tt.errContains)
			}
		})
	}
}

func TestLoad_ValidatorErrorsAreExposed(t *testing.T) {
	t.Parallel()

	_, err := Load(catalogDoc(" []"))
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validator.ValidationErrors in chain, got %T: %v", err, err)
	}
}

func TestLoad_NormalizesTriggers(t *testing.T) {
	t.Parallel()

	doc := strings.Replace(string(catalogDoc(minimalCourse)), "triggers: [bot]", "triggers: [\"ChatBot!\"]", 1)
	c, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(c.Upcoming.Triggers) != 1 || c.Upcoming.Triggers[0] != "chatbot" {
		t.Errorf("Triggers = %v, want [chatbot]", c.Upcoming.Triggers)
	}
}
