package reference

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/nao1215/docproof/internal/render"
)

// DefaultDocsURL is the public documentation site.
const DefaultDocsURL = "https://fakerjs.dev"

var (
	markdownLink = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	absoluteURL  = regexp.MustCompile(`^https?://`)
)

// Validator checks descriptions and @see entries against a Sets value.
type Validator struct {
	sets       *Sets
	docsHost   string
	apiRoot    string
	callPrefix string
}

// Option configures a Validator.
type Option func(*Validator)

// WithDocsURL sets the documentation site whose links must resolve to pages.
func WithDocsURL(docsURL string) Option {
	return func(v *Validator) {
		if u, err := url.Parse(docsURL); err == nil && u.Host != "" {
			v.docsHost = u.Host
		}
	}
}

// WithAPIRoot sets the path prefix of API pages in rendered HTML.
func WithAPIRoot(root string) Option {
	return func(v *Validator) {
		v.apiRoot = root
	}
}

// WithCallPrefix sets the prefix that marks @see entries as references.
func WithCallPrefix(prefix string) Option {
	return func(v *Validator) {
		v.callPrefix = prefix
	}
}

// NewValidator returns a Validator over sets.
func NewValidator(sets *Sets, opts ...Option) *Validator {
	v := &Validator{
		sets:       sets,
		apiRoot:    DefaultAPIRoot,
		callPrefix: "faker.",
	}
	WithDocsURL(DefaultDocsURL)(v)
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateDescription checks every markdown link in text. Links must be
// absolute http(s) URLs; links into the documentation site must point at an
// existing page or method anchor.
func (v *Validator) ValidateDescription(text string) []error {
	var errs []error
	for _, m := range markdownLink.FindAllStringSubmatch(text, -1) {
		target := strings.TrimSpace(m[2])
		if !absoluteURL.MatchString(target) {
			errs = append(errs, fmt.Errorf("%w: %q is not an absolute http(s) URL", ErrBadLink, target))
			continue
		}
		u, err := url.Parse(target)
		if err != nil || u.Host == "" {
			errs = append(errs, fmt.Errorf("%w: %q is not a valid URL", ErrBadLink, target))
			continue
		}
		if u.Host != v.docsHost {
			continue
		}
		link := u.Path
		if u.Fragment != "" {
			link += "#" + u.Fragment
		}
		if !v.sets.HasLink(link) {
			errs = append(errs, fmt.Errorf("%w: %q does not resolve to a documented page", ErrBadLink, target))
		}
	}
	return errs
}

// ValidateHTML checks every href under the API root in a rendered fragment.
func (v *Validator) ValidateHTML(fragment string) []error {
	var errs []error
	for _, href := range render.Hrefs(fragment) {
		if !strings.HasPrefix(href, v.apiRoot) {
			continue
		}
		if !v.sets.HasLink(href) {
			errs = append(errs, fmt.Errorf("%w: %q does not resolve to a documented page", ErrBadLink, href))
		}
	}
	return errs
}

// ValidateSeeAlso checks one @see entry. Only entries starting with the call
// prefix are references; they must be written as calls and name a known
// method.
func (v *Validator) ValidateSeeAlso(entry string) []error {
	if !strings.HasPrefix(entry, v.callPrefix) {
		return nil
	}
	var errs []error
	if !strings.Contains(entry, "(") || !strings.Contains(entry, ")") {
		errs = append(errs, fmt.Errorf("%w: %q should be written as a call with parentheses", ErrBadReference, entry))
	}
	path, _, _ := strings.Cut(entry, "(")
	path = strings.TrimSpace(path)
	if !v.sets.HasReference(path) {
		errs = append(errs, fmt.Errorf("%w: %q does not name a documented method", ErrBadReference, path))
	}
	return errs
}
