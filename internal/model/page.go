package model

// Category groups pages in the fixed output order.
type Category int

const (
	// CategoryClass pages come first, in load order.
	CategoryClass Category = iota
	// CategoryModule pages follow, sorted by title.
	CategoryModule
	// CategoryRandomizer is the single randomizer page.
	CategoryRandomizer
	// CategoryUtilities is the single utilities page.
	CategoryUtilities
)

// String returns the lower-case category name.
func (c Category) String() string {
	switch c {
	case CategoryClass:
		return "class"
	case CategoryModule:
		return "module"
	case CategoryRandomizer:
		return "randomizer"
	case CategoryUtilities:
		return "utilities"
	default:
		return "unknown"
	}
}

// ModuleHashKey is the PageDiff key holding the hash of the page header.
const ModuleHashKey = "moduleHash"

// PageDiff maps ModuleHashKey and each method name to a content hash.
type PageDiff map[string]string

// Equal reports whether both diffs carry the same keys and hashes.
func (d PageDiff) Equal(other PageDiff) bool {
	if len(d) != len(other) {
		return false
	}
	for k, v := range d {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Header is a method anchor on a page.
type Header struct {
	Anchor string `json:"anchor"`
	Text   string `json:"text"`
}

// Page is one rendered API documentation page.
type Page struct {
	// Text is the page title; titles are unique across a run.
	Text string `json:"text"`

	// Link is the page path, /api/<field>.html.
	Link string `json:"link"`

	Category Category      `json:"category"`
	Diff     PageDiff      `json:"diff"`
	Headers  []Header      `json:"headers,omitempty"`
	Methods  []*MethodInfo `json:"methods,omitempty"`

	// Content is the rendered HTML body.
	Content string `json:"-"`
}

// PageIndexEntry is an entry of the pages index.
type PageIndexEntry struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// DiffIndex maps page titles to their diff values.
type DiffIndex map[string]PageDiff

// SearchRecord is one entry of the search index.
type SearchRecord struct {
	Title    string   `json:"title"`
	Link     string   `json:"link"`
	Category string   `json:"category"`
	Headers  []Header `json:"headers,omitempty"`
	Keywords []string `json:"keywords"`
}
