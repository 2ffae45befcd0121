package diff

import (
	"sort"

	"github.com/nao1215/docproof/internal/model"
)

// ChangeType is the kind of a detected change.
type ChangeType string

const (
	PageAdded     ChangeType = "page_added"
	PageRemoved   ChangeType = "page_removed"
	PageChanged   ChangeType = "page_changed"
	MethodAdded   ChangeType = "method_added"
	MethodRemoved ChangeType = "method_removed"
	MethodChanged ChangeType = "method_changed"
)

// Change is a single difference between two indexes.
type Change struct {
	Type ChangeType `json:"type"`
	Page string     `json:"page"`

	// Method is empty for page level changes.
	Method string `json:"method,omitempty"`

	OldHash string `json:"old_hash,omitempty"`
	NewHash string `json:"new_hash,omitempty"`
}

// Result holds every change between a baseline and the current index.
type Result struct {
	FromRun string   `json:"from_run,omitempty"`
	ToRun   string   `json:"to_run,omitempty"`
	Changes []Change `json:"changes"`

	// UnchangedPages counts pages present in both with equal diffs.
	UnchangedPages int `json:"unchanged_pages"`
}

// HasChanges reports whether anything changed.
func (r *Result) HasChanges() bool {
	return len(r.Changes) > 0
}

// Count returns the number of changes of type t.
func (r *Result) Count(t ChangeType) int {
	n := 0
	for _, c := range r.Changes {
		if c.Type == t {
			n++
		}
	}
	return n
}

// Compare lists the changes from baseline to current, sorted by page then
// method. A nil baseline treats every current page as added.
func Compare(baseline, current model.DiffIndex) *Result {
	result := &Result{Changes: []Change{}}

	for _, title := range sortedTitles(current) {
		cur := current[title]
		old, ok := baseline[title]
		if !ok {
			result.Changes = append(result.Changes, Change{Type: PageAdded, Page: title})
			continue
		}
		if old.Equal(cur) {
			result.UnchangedPages++
			continue
		}
		result.Changes = append(result.Changes, comparePage(title, old, cur)...)
	}

	for _, title := range sortedTitles(baseline) {
		if _, ok := current[title]; !ok {
			result.Changes = append(result.Changes, Change{Type: PageRemoved, Page: title})
		}
	}

	sort.SliceStable(result.Changes, func(i, j int) bool {
		a, b := result.Changes[i], result.Changes[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		return a.Method < b.Method
	})
	return result
}

func comparePage(title string, old, cur model.PageDiff) []Change {
	var changes []Change
	if old[model.ModuleHashKey] != cur[model.ModuleHashKey] {
		changes = append(changes, Change{
			Type:    PageChanged,
			Page:    title,
			OldHash: old[model.ModuleHashKey],
			NewHash: cur[model.ModuleHashKey],
		})
	}
	for _, name := range sortedMethods(cur) {
		oldHash, ok := old[name]
		switch {
		case !ok:
			changes = append(changes, Change{Type: MethodAdded, Page: title, Method: name, NewHash: cur[name]})
		case oldHash != cur[name]:
			changes = append(changes, Change{Type: MethodChanged, Page: title, Method: name, OldHash: oldHash, NewHash: cur[name]})
		}
	}
	for _, name := range sortedMethods(old) {
		if _, ok := cur[name]; !ok {
			changes = append(changes, Change{Type: MethodRemoved, Page: title, Method: name, OldHash: old[name]})
		}
	}
	return changes
}

func sortedTitles(idx model.DiffIndex) []string {
	titles := make([]string, 0, len(idx))
	for t := range idx {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

func sortedMethods(d model.PageDiff) []string {
	names := make([]string, 0, len(d))
	for k := range d {
		if k != model.ModuleHashKey {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}
