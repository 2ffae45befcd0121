package signature

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/docproof/internal/model"
	"github.com/nao1215/docproof/internal/render"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()

	r, err := render.NewMarkdown()
	if err != nil {
		t.Fatalf("NewMarkdown() error = %v", err)
	}
	return NewAnalyzer(r)
}

func intSignature() *model.Signature {
	return &model.Signature{
		Name:       "int",
		ReturnType: "number",
		Comment: &model.Comment{
			Summary: model.TextParts("Returns a single random integer."),
			BlockTags: []model.Tag{
				{Tag: "@param", Content: model.TextParts("options Maximum value or options object.")},
				{Tag: "@param", Content: model.TextParts("options.max Upper bound.")},
				{Tag: "@since", Content: model.TextParts("8.0.0")},
				{Tag: "@example", Content: model.TextParts("faker.number.int()")},
			},
		},
		Parameters: []*model.Parameter{{
			Name:     "options",
			Type:     "number | { min?: number; max?: number }",
			Optional: true,
			Properties: []*model.Parameter{
				{Name: "min", Type: "number", Optional: true, Comment: &model.Comment{
					Summary:   model.TextParts("Lower bound."),
					BlockTags: []model.Tag{{Tag: "@default", Content: model.TextParts("0")}},
				}},
				{Name: "max", Type: "number", Optional: true},
				{Name: "multipleOf", Type: "number", Optional: true},
			},
		}},
	}
}

// TestAnalyzer_AnalyzeSignature tests parameter descriptions and metadata.
func TestAnalyzer_AnalyzeSignature(t *testing.T) {
	t.Parallel()

	a := newAnalyzer(t)
	info, err := a.AnalyzeSignature(context.Background(), intSignature(), "number", "int")
	if err != nil {
		t.Fatalf("AnalyzeSignature() error = %v", err)
	}

	if info.Signature != "faker.number.int(options?: number | { min?: number; max?: number }): number" {
		t.Errorf("Signature = %q", info.Signature)
	}
	if info.Since != "8.0.0" || info.Examples != "faker.number.int()" {
		t.Errorf("since/examples = %q / %q", info.Since, info.Examples)
	}

	want := map[string]string{
		"options":            "Maximum value or options object.",
		"options.min":        "Lower bound.",
		"options.max":        "Upper bound.",
		"options.multipleOf": MissingDescription,
	}
	if len(info.Parameters) != len(want) {
		t.Fatalf("got %d parameters, want %d", len(info.Parameters), len(want))
	}
	for _, p := range info.Parameters {
		if got := render.StripTags(p.Description); got != want[p.Name] {
			t.Errorf("parameter %s description = %q, want %q", p.Name, got, want[p.Name])
		}
	}
	if info.Parameters[1].Default != "0" {
		t.Errorf("options.min default = %q, want 0", info.Parameters[1].Default)
	}
	if !IsMissing(info.Parameters[3].Description) {
		t.Errorf("IsMissing(%q) = false", info.Parameters[3].Description)
	}
	if !strings.HasPrefix(info.Parameters[3].Description, "<p>") {
		t.Errorf("sentinel was not rendered: %q", info.Parameters[3].Description)
	}
}

// TestAnalyzer_EmptyDescriptionStaysEmpty tests an explicit empty @param.
func TestAnalyzer_EmptyDescriptionStaysEmpty(t *testing.T) {
	t.Parallel()

	sig := &model.Signature{
		Comment:    &model.Comment{BlockTags: []model.Tag{{Tag: "@param", Name: "length"}}},
		Parameters: []*model.Parameter{{Name: "length", Type: "number"}},
	}
	info, err := newAnalyzer(t).AnalyzeSignature(context.Background(), sig, "string", "alpha")
	if err != nil {
		t.Fatalf("AnalyzeSignature() error = %v", err)
	}
	if got := render.StripTags(info.Parameters[0].Description); got != "" {
		t.Errorf("description = %q, want empty", got)
	}
	if IsMissing(info.Parameters[0].Description) {
		t.Error("explicit empty description reported missing")
	}
}

// TestAnalyzer_Deprecated tests deprecation rendering.
func TestAnalyzer_Deprecated(t *testing.T) {
	t.Parallel()

	sig := &model.Signature{Comment: &model.Comment{BlockTags: []model.Tag{
		{Tag: "@deprecated", Content: model.TextParts("Use `faker.number.int()` instead.")},
	}}}
	info, err := newAnalyzer(t).AnalyzeSignature(context.Background(), sig, "", "old")
	if err != nil {
		t.Fatalf("AnalyzeSignature() error = %v", err)
	}
	if !info.IsDeprecated || !strings.Contains(info.Deprecated, "<code>faker.number.int()</code>") {
		t.Errorf("deprecated = %v %q", info.IsDeprecated, info.Deprecated)
	}
	if info.Signature != "old()" {
		t.Errorf("Signature = %q", info.Signature)
	}
}

// TestAnalyzer_NilParameters tests that nil parameters leave no separators.
func TestAnalyzer_NilParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params []*model.Parameter
		want   string
	}{
		{name: "nil first", params: []*model.Parameter{nil, {Name: "b"}, {Name: "c"}}, want: "faker.string.pick(b, c)"},
		{name: "nil middle", params: []*model.Parameter{{Name: "a"}, nil, {Name: "c"}}, want: "faker.string.pick(a, c)"},
		{name: "only nil", params: []*model.Parameter{nil, nil}, want: "faker.string.pick()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sig := &model.Signature{Name: "pick", Parameters: tt.params}
			info, err := newAnalyzer(t).AnalyzeSignature(context.Background(), sig, "string", "pick")
			if err != nil {
				t.Fatalf("AnalyzeSignature() error = %v", err)
			}
			if info.Signature != tt.want {
				t.Errorf("Signature = %q, want %q", info.Signature, tt.want)
			}
		})
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(string) (string, error) { return "", errors.New("boom") }

// TestAnalyzer_Errors tests cancellation and renderer failures.
func TestAnalyzer_Errors(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newAnalyzer(t).AnalyzeSignature(ctx, intSignature(), "number", "int"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}

	a := NewAnalyzer(failingRenderer{}, WithCallPrefix("gen."))
	if _, err := a.AnalyzeSignature(context.Background(), intSignature(), "number", "int"); err == nil {
		t.Error("expected renderer error")
	}
}
