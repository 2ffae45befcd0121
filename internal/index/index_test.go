package index

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nao1215/docproof/internal/model"
)

func testPages() []*model.Page {
	return []*model.Page{
		{
			Text: "Faker", Link: "/api/faker.html", Category: model.CategoryClass,
			Diff:    model.PageDiff{model.ModuleHashKey: "a"},
			Content: "<h1>Faker</h1>",
		},
		{
			Text: "Number", Link: "/api/number.html", Category: model.CategoryModule,
			Diff:    model.PageDiff{model.ModuleHashKey: "b", "int": "c", "bigInt": "d"},
			Headers: []model.Header{{Anchor: "bigint", Text: "bigInt"}, {Anchor: "int", Text: "int"}},
			Content: "<h1>Number</h1><p>Returns a random integer.</p>",
		},
	}
}

// TestBuildPagesIndex tests that page order is preserved.
func TestBuildPagesIndex(t *testing.T) {
	t.Parallel()

	got := BuildPagesIndex(testPages())
	want := []model.PageIndexEntry{
		{Text: "Faker", Link: "/api/faker.html"},
		{Text: "Number", Link: "/api/number.html"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildPagesIndex() = %+v, want %+v", got, want)
	}
}

// TestBuildDiffIndex tests diff index construction and duplicate titles.
func TestBuildDiffIndex(t *testing.T) {
	t.Parallel()

	idx, err := BuildDiffIndex(testPages())
	if err != nil {
		t.Fatalf("BuildDiffIndex() error = %v", err)
	}
	if len(idx) != 2 || idx["Number"]["int"] != "c" {
		t.Errorf("BuildDiffIndex() = %+v", idx)
	}

	dup := append(testPages(), &model.Page{Text: "Number", Link: "/api/number2.html"})
	if _, err := BuildDiffIndex(dup); !errors.Is(err, ErrDuplicateTitle) {
		t.Errorf("error = %v, want ErrDuplicateTitle", err)
	}
}

// TestBuildSearchIndex tests search records and keywords.
func TestBuildSearchIndex(t *testing.T) {
	t.Parallel()

	records := BuildSearchIndex(testPages())
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	number := records[1]
	if number.Title != "Number" || number.Link != "/api/number.html" || number.Category != "module" {
		t.Errorf("record = %+v", number)
	}
	for _, kw := range []string{"bigint", "big", "int", "integer", "random", "returns", "number"} {
		found := false
		for _, k := range number.Keywords {
			if k == kw {
				found = true
			}
		}
		if !found {
			t.Errorf("keyword %q missing from %q", kw, number.Keywords)
		}
	}
}

// TestKeywords tests tokenization.
func TestKeywords(t *testing.T) {
	t.Parallel()

	got := Keywords("fromCharacters a", "URL HTTPStatus")
	want := []string{"characters", "from", "fromcharacters", "httpstatus", "url"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords() = %q, want %q", got, want)
	}
}

// TestSearch tests ranking.
func TestSearch(t *testing.T) {
	t.Parallel()

	records := BuildSearchIndex(testPages())

	got := Search(records, "int")
	if len(got) != 1 || got[0].Title != "Number" {
		t.Errorf("Search(int) = %+v", got)
	}
	if got := Search(records, "faker"); len(got) != 1 || got[0].Title != "Faker" {
		t.Errorf("Search(faker) = %+v", got)
	}
	if got := Search(records, "nothing matches"); len(got) != 0 {
		t.Errorf("Search() = %+v, want none", got)
	}
	if got := Search(records, ""); got != nil {
		t.Errorf("Search(\"\") = %+v, want nil", got)
	}
}

// TestWriter_Write tests the written artifacts.
func TestWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("writes every artifact", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		art, err := NewWriter(dir, WithPrettyPrint(true)).Write(testPages(), "https://github.com/x/y/blob/abc/")
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		idx, err := ReadDiffIndex(art.DiffIndex)
		if err != nil {
			t.Fatalf("ReadDiffIndex() error = %v", err)
		}
		if idx["Number"]["bigInt"] != "d" {
			t.Errorf("diff index = %+v", idx)
		}

		records, err := ReadSearchIndex(art.SearchIndex)
		if err != nil {
			t.Fatalf("ReadSearchIndex() error = %v", err)
		}
		if len(records) != 2 {
			t.Errorf("got %d search records", len(records))
		}

		marker, err := os.ReadFile(filepath.Join(dir, SourceBaseURLFile))
		if err != nil {
			t.Fatalf("read marker: %v", err)
		}
		if string(marker) != "https://github.com/x/y/blob/abc/" {
			t.Errorf("marker = %q", marker)
		}

		body, err := os.ReadFile(filepath.Join(dir, "api", "number.html"))
		if err != nil {
			t.Fatalf("read page: %v", err)
		}
		if string(body) != testPages()[1].Content {
			t.Errorf("page body = %q", body)
		}
		if len(art.Pages) != 2 {
			t.Errorf("Pages = %v", art.Pages)
		}
	})

	t.Run("duplicate title writes nothing", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "out")
		pages := append(testPages(), &model.Page{Text: "Faker", Link: "/api/other.html"})
		if _, err := NewWriter(dir).Write(pages, ""); !errors.Is(err, ErrDuplicateTitle) {
			t.Fatalf("error = %v, want ErrDuplicateTitle", err)
		}
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("output directory was created: %v", err)
		}
	})

	t.Run("empty output dir", func(t *testing.T) {
		t.Parallel()

		if _, err := NewWriter("").Write(testPages(), ""); !errors.Is(err, ErrEmptyOutputDir) {
			t.Errorf("error = %v, want ErrEmptyOutputDir", err)
		}
	})
}
