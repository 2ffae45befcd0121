package reference

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/nao1215/docproof/internal/model"
)

func testModules() []*model.Module {
	return []*model.Module{
		{Name: "NumberModule", Methods: []*model.Method{{Name: "int"}, {Name: "bigInt"}}},
		{Name: "ColorModule", Methods: []*model.Method{{Name: "rgb"}}},
	}
}

// TestNewSets tests derivation of allowed references and links.
func TestNewSets(t *testing.T) {
	t.Parallel()

	s := NewSets(testModules(), "faker.")

	wantRefs := []string{"faker.color.rgb", "faker.number.bigInt", "faker.number.int"}
	if got := s.References(); !reflect.DeepEqual(got, wantRefs) {
		t.Errorf("References() = %q, want %q", got, wantRefs)
	}
	wantLinks := []string{
		"/api/color.html", "/api/color.html#rgb",
		"/api/number.html", "/api/number.html#bigint", "/api/number.html#int",
	}
	if got := s.Links(); !reflect.DeepEqual(got, wantLinks) {
		t.Errorf("Links() = %q, want %q", got, wantLinks)
	}
	if s.HasLink("/api/number.html#bigInt") {
		t.Error("anchors must be lower-cased")
	}
}

// TestValidator_ValidateDescription tests markdown link validation.
func TestValidator_ValidateDescription(t *testing.T) {
	t.Parallel()

	v := NewValidator(NewSets(testModules(), "faker."))

	tests := []struct {
		name     string
		text     string
		wantErrs int
	}{
		{name: "no links", text: "Returns a number.", wantErrs: 0},
		{name: "external link", text: "See [MDN](https://developer.mozilla.org/en-US/docs/Web).", wantErrs: 0},
		{name: "docs page link", text: "See [int](https://fakerjs.dev/api/number.html#int).", wantErrs: 0},
		{name: "docs module link", text: "See [number](https://fakerjs.dev/api/number.html).", wantErrs: 0},
		{name: "unknown docs anchor", text: "See [float](https://fakerjs.dev/api/number.html#float).", wantErrs: 1},
		{name: "relative link", text: "See [int](/api/number.html#int).", wantErrs: 1},
		{name: "broken url", text: "See [x](https://).", wantErrs: 1},
		{name: "every violation is reported", text: "[a](/a) and [b](ftp://b) and [c](https://fakerjs.dev/api/nope.html)", wantErrs: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := v.ValidateDescription(tt.text)
			if len(errs) != tt.wantErrs {
				t.Fatalf("got %d errors %v, want %d", len(errs), errs, tt.wantErrs)
			}
			for _, err := range errs {
				if !errors.Is(err, ErrBadLink) {
					t.Errorf("error %v does not wrap ErrBadLink", err)
				}
			}
		})
	}
}

// TestValidator_ValidateHTML tests rendered href validation.
func TestValidator_ValidateHTML(t *testing.T) {
	t.Parallel()

	v := NewValidator(NewSets(testModules(), "faker."))

	ok := `<p>See <a href="/api/number.html#int">int</a> and <a href="https://example.com">x</a>.</p>`
	if errs := v.ValidateHTML(ok); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}

	bad := `<p><a href="/api/number.html#float">float</a> <a href="/api/string.html">s</a></p>`
	errs := v.ValidateHTML(bad)
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Error(), "/api/number.html#float") {
		t.Errorf("error does not name the link: %v", errs[0])
	}
}

// TestValidator_ValidateSeeAlso tests @see validation.
func TestValidator_ValidateSeeAlso(t *testing.T) {
	t.Parallel()

	v := NewValidator(NewSets(testModules(), "faker."))

	tests := []struct {
		name     string
		entry    string
		wantErrs int
	}{
		{name: "valid call", entry: "faker.number.bigInt()", wantErrs: 0},
		{name: "valid call with arguments", entry: "faker.number.int({ max: 10 })", wantErrs: 0},
		{name: "non reference entry", entry: "https://en.wikipedia.org/wiki/RGB", wantErrs: 0},
		{name: "missing parentheses", entry: "faker.number.int", wantErrs: 1},
		{name: "unknown method", entry: "faker.number.float()", wantErrs: 1},
		{name: "unknown method without parentheses", entry: "faker.string.alpha", wantErrs: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := v.ValidateSeeAlso(tt.entry)
			if len(errs) != tt.wantErrs {
				t.Fatalf("got %d errors %v, want %d", len(errs), errs, tt.wantErrs)
			}
			for _, err := range errs {
				if !errors.Is(err, ErrBadReference) {
					t.Errorf("error %v does not wrap ErrBadReference", err)
				}
			}
		})
	}
}

// TestValidator_Options tests custom prefixes and docs domain.
func TestValidator_Options(t *testing.T) {
	t.Parallel()

	sets := NewSetsWithRoot(testModules(), "gen.", "/reference/")
	v := NewValidator(sets,
		WithDocsURL("https://docs.example.org"),
		WithAPIRoot("/reference/"),
		WithCallPrefix("gen."),
	)

	if errs := v.ValidateSeeAlso("gen.number.int()"); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if errs := v.ValidateDescription("[a](https://docs.example.org/reference/color.html#rgb)"); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if errs := v.ValidateDescription("[a](https://fakerjs.dev/api/anything.html)"); len(errs) != 0 {
		t.Errorf("default docs host still enforced: %v", errs)
	}
	if errs := v.ValidateHTML(`<a href="/reference/nope.html">x</a>`); len(errs) != 1 {
		t.Errorf("got %d errors, want 1", len(errs))
	}
}
