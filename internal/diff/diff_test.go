package diff

import (
	"testing"

	"github.com/nao1215/docproof/internal/model"
)

// TestCompare tests change detection between two indexes.
func TestCompare(t *testing.T) {
	t.Parallel()

	baseline := model.DiffIndex{
		"Number":  {model.ModuleHashKey: "m1", "int": "a", "float": "b", "hex": "h"},
		"Color":   {model.ModuleHashKey: "c1", "rgb": "r"},
		"Removed": {model.ModuleHashKey: "x"},
	}
	current := model.DiffIndex{
		"Number": {model.ModuleHashKey: "m2", "int": "a", "float": "b2", "bigInt": "n"},
		"Color":  {model.ModuleHashKey: "c1", "rgb": "r"},
		"Word":   {model.ModuleHashKey: "w"},
	}

	result := Compare(baseline, current)

	want := []Change{
		{Type: MethodAdded, Page: "Number", Method: "bigInt", NewHash: "n"},
		{Type: MethodChanged, Page: "Number", Method: "float", OldHash: "b", NewHash: "b2"},
		{Type: MethodRemoved, Page: "Number", Method: "hex", OldHash: "h"},
		{Type: PageRemoved, Page: "Removed"},
		{Type: PageAdded, Page: "Word"},
	}
	// The page level header change sorts first within Number.
	wantFirst := Change{Type: PageChanged, Page: "Number", OldHash: "m1", NewHash: "m2"}

	if len(result.Changes) != len(want)+1 {
		t.Fatalf("got %d changes %+v, want %d", len(result.Changes), result.Changes, len(want)+1)
	}
	if result.Changes[0] != wantFirst {
		t.Errorf("change 0 = %+v, want %+v", result.Changes[0], wantFirst)
	}
	for i, w := range want {
		if got := result.Changes[i+1]; got != w {
			t.Errorf("change %d = %+v, want %+v", i+1, got, w)
		}
	}
	if result.UnchangedPages != 1 {
		t.Errorf("UnchangedPages = %d, want 1", result.UnchangedPages)
	}
	if !result.HasChanges() || result.Count(MethodAdded) != 1 {
		t.Errorf("HasChanges/Count mismatch: %+v", result)
	}
}

// TestCompare_NilBaseline tests a first run without a baseline.
func TestCompare_NilBaseline(t *testing.T) {
	t.Parallel()

	result := Compare(nil, model.DiffIndex{"A": {}, "B": {}})
	if result.Count(PageAdded) != 2 {
		t.Errorf("Count(PageAdded) = %d, want 2", result.Count(PageAdded))
	}

	same := Compare(model.DiffIndex{"A": {"x": "1"}}, model.DiffIndex{"A": {"x": "1"}})
	if same.HasChanges() {
		t.Errorf("unexpected changes %+v", same.Changes)
	}
}
