package render

import (
	"reflect"
	"strings"
	"testing"
)

// TestMarkdown_Render tests markdown rendering and caching.
func TestMarkdown_Render(t *testing.T) {
	t.Parallel()

	m, err := NewMarkdown(WithCacheSize(8))
	if err != nil {
		t.Fatalf("NewMarkdown() error = %v", err)
	}

	got, err := m.Render("Missing")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.TrimSpace(got) != "<p>Missing</p>" {
		t.Errorf("Render() = %q", got)
	}
	if m.CacheLen() != 1 {
		t.Errorf("CacheLen() = %d, want 1", m.CacheLen())
	}

	again, err := m.Render("Missing")
	if err != nil || again != got {
		t.Errorf("cached Render() = %q, %v", again, err)
	}

	link, err := m.Render("See [int](/api/number.html#int).")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(link, `href="/api/number.html#int"`) {
		t.Errorf("link not rendered: %q", link)
	}

	heading, err := m.Render("## fromCharacters")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(heading, `id="fromcharacters"`) {
		t.Errorf("heading id missing: %q", heading)
	}
}

// TestMarkdown_NoCache tests rendering with caching disabled.
func TestMarkdown_NoCache(t *testing.T) {
	t.Parallel()

	m, err := NewMarkdown(WithCacheSize(0))
	if err != nil {
		t.Fatalf("NewMarkdown() error = %v", err)
	}
	if _, err := m.Render("text"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if m.CacheLen() != 0 {
		t.Errorf("CacheLen() = %d, want 0", m.CacheLen())
	}
}

// TestStripTags tests HTML text extraction.
func TestStripTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "<p>Missing</p>\n", want: "Missing"},
		{in: "<p>Use <code>max</code> &amp; <em>min</em></p>", want: "Use max & min"},
		{in: "plain", want: "plain"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := StripTags(tt.in); got != tt.want {
			t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestHrefs tests href extraction.
func TestHrefs(t *testing.T) {
	t.Parallel()

	got := Hrefs(`<p><a href="/api/number.html">n</a> <a name="x">y</a><link href="style.css"/></p>`)
	want := []string{"/api/number.html", "style.css"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Hrefs() = %q, want %q", got, want)
	}
}

// TestTextFields tests per node text extraction.
func TestTextFields(t *testing.T) {
	t.Parallel()

	got := TextFields("<h1>Number</h1><p>Returns <code>int</code>.</p>")
	want := []string{"Number", "Returns", "int", "."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TextFields() = %q, want %q", got, want)
	}
}
