package reference

import (
	"sort"
	"strings"

	"github.com/nao1215/docproof/internal/model"
	"github.com/nao1215/docproof/internal/tags"
)

// DefaultAPIRoot is the path prefix of generated API pages.
const DefaultAPIRoot = "/api/"

// Sets holds the allowed references and links. A Sets value is never
// modified after construction.
type Sets struct {
	references map[string]struct{}
	links      map[string]struct{}
}

// NewSets derives the allowed sets from modules. callPrefix is the entry
// point prefix of references, e.g. "faker.".
func NewSets(modules []*model.Module, callPrefix string) *Sets {
	return NewSetsWithRoot(modules, callPrefix, DefaultAPIRoot)
}

// NewSetsWithRoot is NewSets with a custom API page root.
func NewSetsWithRoot(modules []*model.Module, callPrefix, apiRoot string) *Sets {
	s := &Sets{
		references: make(map[string]struct{}),
		links:      make(map[string]struct{}),
	}
	for _, m := range modules {
		field := tags.ExtractModuleFieldName(m)
		page := apiRoot + field + ".html"
		s.links[page] = struct{}{}
		for _, method := range m.Methods {
			s.references[callPrefix+field+"."+method.Name] = struct{}{}
			s.links[page+"#"+strings.ToLower(method.Name)] = struct{}{}
		}
	}
	return s
}

// HasReference reports whether ref, e.g. faker.number.int, is allowed.
func (s *Sets) HasReference(ref string) bool {
	_, ok := s.references[ref]
	return ok
}

// HasLink reports whether link, e.g. /api/number.html#int, is allowed.
func (s *Sets) HasLink(link string) bool {
	_, ok := s.links[link]
	return ok
}

// References returns the allowed references sorted.
func (s *Sets) References() []string {
	return sortedKeys(s.references)
}

// Links returns the allowed links sorted.
func (s *Sets) Links() []string {
	return sortedKeys(s.links)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
