package example

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/nao1215/docproof/internal/model"
)

const (
	// DefaultRootIdentifier is the entry point prefix looked for in examples.
	DefaultRootIdentifier = "faker"

	// DefaultEntryModule is the module specifier the import points at.
	DefaultEntryModule = "../../src"

	// DefaultImportTemplate renders an ECMAScript named import.
	DefaultImportTemplate = `import { {{ join .EntryPoints ", " }} } from '{{ .EntryModule }}';`

	// DefaultWarningMarker starts every line the warning capture emits.
	DefaultWarningMarker = "[docproof:warning]"

	// DefaultWarningCapture rebinds console.warn so each call writes one
	// marker-prefixed line to stderr.
	DefaultWarningCapture = `console.warn = (...args) => { process.stderr.write('{{ .Marker }} ' + args.map(String).join(' ').replace(/\n/g, ' ') + '\n'); };`
)

// Materializer builds runnable units from example bodies. It is safe for
// concurrent use.
type Materializer struct {
	rootIdentifier string
	entryModule    string
	importTemplate string
	warningMarker  string
	warningCapture string
	tmpl           *template.Template
	capture        string
	pattern        *regexp.Regexp
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithRootIdentifier sets the identifier prefix of entry points.
func WithRootIdentifier(root string) Option {
	return func(m *Materializer) {
		m.rootIdentifier = root
	}
}

// WithEntryModule sets the module specifier used in the import statement.
func WithEntryModule(entry string) Option {
	return func(m *Materializer) {
		m.entryModule = entry
	}
}

// WithImportTemplate replaces the import statement template. The template
// receives EntryPoints and EntryModule and may call join.
func WithImportTemplate(tmpl string) Option {
	return func(m *Materializer) {
		m.importTemplate = tmpl
	}
}

// WithWarningMarker sets the marker the warning capture prefixes lines with.
func WithWarningMarker(marker string) Option {
	return func(m *Materializer) {
		m.warningMarker = marker
	}
}

// WithWarningCapture replaces the warning capture template. The template
// receives Marker. An empty template disables the capture.
func WithWarningCapture(tmpl string) Option {
	return func(m *Materializer) {
		m.warningCapture = tmpl
	}
}

// New returns a Materializer.
func New(opts ...Option) (*Materializer, error) {
	m := &Materializer{
		rootIdentifier: DefaultRootIdentifier,
		entryModule:    DefaultEntryModule,
		importTemplate: DefaultImportTemplate,
		warningMarker:  DefaultWarningMarker,
		warningCapture: DefaultWarningCapture,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rootIdentifier == "" {
		return nil, ErrEmptyRootIdentifier
	}

	tmpl, err := template.New("import").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(m.importTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	m.tmpl = tmpl

	capture, err := template.New("capture").Parse(m.warningCapture)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	var buf bytes.Buffer
	if err := capture.Execute(&buf, struct{ Marker string }{Marker: m.warningMarker}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	m.capture = buf.String()

	// An entry point starts at an identifier boundary that is not a member
	// access and ends right before a '.'.
	m.pattern = regexp.MustCompile(`(?:^|[^.\w$])(` + regexp.QuoteMeta(m.rootIdentifier) + `[\w$]*)\.`)
	return m, nil
}

// EntryPoints returns the distinct entry point identifiers referenced by raw,
// in order of first appearance.
func (m *Materializer) EntryPoints(raw string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, match := range m.pattern.FindAllStringSubmatch(raw, -1) {
		name := match[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Materialize returns the runnable unit for one callable's examples. The
// result depends only on raw and the Materializer's configuration.
func (m *Materializer) Materialize(module, method, raw string) (*model.MaterializedExample, error) {
	return m.materialize(module, method, raw, false)
}

// MaterializeWarningCapture returns the unit run to observe deprecation
// warnings: the Materialize unit with the warning capture placed between
// the import header and the body.
func (m *Materializer) MaterializeWarningCapture(module, method, raw string) (*model.MaterializedExample, error) {
	return m.materialize(module, method, raw, true)
}

// WarningMarker returns the marker of captured warning lines.
func (m *Materializer) WarningMarker() string {
	return m.warningMarker
}

func (m *Materializer) materialize(module, method, raw string, capture bool) (*model.MaterializedExample, error) {
	names := m.EntryPoints(raw)

	var buf bytes.Buffer
	if len(names) > 0 {
		data := struct {
			EntryPoints []string
			EntryModule string
		}{EntryPoints: names, EntryModule: m.entryModule}
		if err := m.tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("render import for %s.%s: %w", module, method, err)
		}
		buf.WriteString("\n\n")
	}
	if capture && m.capture != "" {
		buf.WriteString(m.capture)
		buf.WriteString("\n")
	}
	buf.WriteString(raw)

	return &model.MaterializedExample{
		Module:      module,
		Method:      method,
		Source:      buf.String(),
		EntryPoints: names,
	}, nil
}
