package index

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/nao1215/docproof/internal/model"
	"github.com/nao1215/docproof/internal/render"
)

// BuildPagesIndex returns one entry per page in page order.
func BuildPagesIndex(pages []*model.Page) []model.PageIndexEntry {
	entries := make([]model.PageIndexEntry, 0, len(pages))
	for _, p := range pages {
		entries = append(entries, model.PageIndexEntry{Text: p.Text, Link: p.Link})
	}
	return entries
}

// BuildDiffIndex maps every page title to its diff.
func BuildDiffIndex(pages []*model.Page) (model.DiffIndex, error) {
	idx := make(model.DiffIndex, len(pages))
	for _, p := range pages {
		if _, exists := idx[p.Text]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTitle, p.Text)
		}
		idx[p.Text] = p.Diff
	}
	return idx, nil
}

// BuildSearchIndex returns one record per page.
func BuildSearchIndex(pages []*model.Page) []model.SearchRecord {
	records := make([]model.SearchRecord, 0, len(pages))
	for _, p := range pages {
		var sources []string
		sources = append(sources, p.Text)
		for _, h := range p.Headers {
			sources = append(sources, h.Text)
		}
		sources = append(sources, render.TextFields(p.Content)...)

		records = append(records, model.SearchRecord{
			Title:    p.Text,
			Link:     p.Link,
			Category: p.Category.String(),
			Headers:  p.Headers,
			Keywords: Keywords(sources...),
		})
	}
	return records
}

// minKeywordLength drops tokens too short to be useful search terms.
const minKeywordLength = 2

// Keywords lower-cases and tokenizes texts into a sorted, deduplicated list.
// camelCase identifiers contribute both the whole word and its parts.
func Keywords(texts ...string) []string {
	seen := make(map[string]bool)
	add := func(tok string) {
		tok = strings.ToLower(tok)
		if len(tok) >= minKeywordLength {
			seen[tok] = true
		}
	}

	for _, text := range texts {
		words := strings.FieldsFunc(text, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			add(w)
			parts := splitCamel(w)
			if len(parts) > 1 {
				for _, part := range parts {
					add(part)
				}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func splitCamel(word string) []string {
	var parts []string
	runes := []rune(word)
	start := 0
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && !unicode.IsUpper(runes[i-1]) {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	return append(parts, string(runes[start:]))
}

// Search returns the records matching every term of query, best first.
// A record scores 3 for a title match, 2 for a header match and 1 for a
// keyword match per term.
func Search(records []model.SearchRecord, query string) []model.SearchRecord {
	terms := Keywords(query)
	if len(terms) == 0 {
		return nil
	}

	type hit struct {
		record model.SearchRecord
		score  int
	}
	var hits []hit
	for _, r := range records {
		score := 0
		matched := true
		for _, term := range terms {
			s := termScore(r, term)
			if s == 0 {
				matched = false
				break
			}
			score += s
		}
		if matched {
			hits = append(hits, hit{record: r, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	out := make([]model.SearchRecord, len(hits))
	for i, h := range hits {
		out[i] = h.record
	}
	return out
}

func termScore(r model.SearchRecord, term string) int {
	if strings.Contains(strings.ToLower(r.Title), term) {
		return 3
	}
	for _, h := range r.Headers {
		if strings.Contains(strings.ToLower(h.Text), term) {
			return 2
		}
	}
	i := sort.SearchStrings(r.Keywords, term)
	if i < len(r.Keywords) && strings.HasPrefix(r.Keywords[i], term) {
		return 1
	}
	return 0
}
