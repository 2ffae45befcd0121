package page

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nao1215/docproof/internal/model"
	"github.com/nao1215/docproof/internal/render"
	"github.com/nao1215/docproof/internal/signature"
	"github.com/nao1215/docproof/internal/tags"
)

// Fixed titles and link stems of the trailing pages.
const (
	RandomizerTitle = "Randomizer"
	UtilitiesTitle  = "Utilities"
	utilitiesStem   = "utils"
)

// Processor turns a project into pages.
type Processor struct {
	analyzer      *signature.Analyzer
	renderer      render.Renderer
	logger        *slog.Logger
	apiRoot       string
	callPrefix    string
	codeLanguage  string
	sourceBaseURL string
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithAPIRoot sets the path prefix of page links.
func WithAPIRoot(root string) Option {
	return func(p *Processor) {
		p.apiRoot = root
	}
}

// WithCallPrefix sets the entry point prefix used to link @see entries.
func WithCallPrefix(prefix string) Option {
	return func(p *Processor) {
		p.callPrefix = prefix
	}
}

// WithCodeLanguage sets the fence language of signatures and examples.
func WithCodeLanguage(lang string) Option {
	return func(p *Processor) {
		p.codeLanguage = lang
	}
}

// WithSourceBaseURL overrides the source base URL found in the project.
func WithSourceBaseURL(u string) Option {
	return func(p *Processor) {
		p.sourceBaseURL = u
	}
}

// NewProcessor returns a Processor.
func NewProcessor(analyzer *signature.Analyzer, renderer render.Renderer, opts ...Option) *Processor {
	p := &Processor{
		analyzer:     analyzer,
		renderer:     renderer,
		apiRoot:      "/api/",
		callPrefix:   signature.DefaultCallPrefix,
		codeLanguage: "ts",
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// pageSource is the common shape of everything that becomes a page.
type pageSource struct {
	title    string
	stem     string
	parent   string
	category model.Category
	comment  *model.Comment
	methods  []*model.Method
}

// Process builds every page of project in output order.
func (p *Processor) Process(ctx context.Context, project *model.Project) ([]*model.Page, error) {
	if project == nil {
		return nil, ErrNilProject
	}

	// proc carries the source base URL resolved for this project.
	proc := *p
	if proc.sourceBaseURL == "" {
		proc.sourceBaseURL = tags.ProjectSourceBaseURL(project)
	}

	sources := proc.orderedSources(project)
	pages := make([]*model.Page, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := proc.buildPage(ctx, src)
		if err != nil {
			return nil, err
		}
		p.logger.Debug("page processed",
			"title", page.Text,
			"link", page.Link,
			"methods", len(page.Methods),
		)
		pages = append(pages, page)
	}
	return pages, nil
}

// SourceBaseURL returns the base URL Process would use for project.
func (p *Processor) SourceBaseURL(project *model.Project) string {
	if p.sourceBaseURL != "" {
		return p.sourceBaseURL
	}
	return tags.ProjectSourceBaseURL(project)
}

func (p *Processor) orderedSources(project *model.Project) []pageSource {
	var sources []pageSource

	for _, c := range project.Classes {
		sources = append(sources, pageSource{
			title:    c.Name,
			stem:     tags.LowerFirst(c.Name),
			category: model.CategoryClass,
			comment:  c.Comment,
			methods:  c.Methods,
		})
	}

	caser := cases.Title(language.English, cases.NoLower)
	modules := make([]pageSource, 0, len(project.Modules))
	for _, m := range project.Modules {
		modules = append(modules, pageSource{
			title:    caser.String(tags.ExtractModuleName(m.Name)),
			stem:     tags.ExtractModuleFieldName(m),
			parent:   tags.ExtractModuleFieldName(m),
			category: model.CategoryModule,
			comment:  m.Comment,
			methods:  m.Methods,
		})
	}
	collator := collate.New(language.English)
	sort.SliceStable(modules, func(i, j int) bool {
		return collator.CompareString(modules[i].title, modules[j].title) < 0
	})
	sources = append(sources, modules...)

	if r := project.Randomizer; r != nil {
		sources = append(sources, pageSource{
			title:    RandomizerTitle,
			stem:     tags.LowerFirst(RandomizerTitle),
			category: model.CategoryRandomizer,
			comment:  r.Comment,
			methods:  r.Methods,
		})
	}

	if len(project.Utilities) > 0 {
		sources = append(sources, pageSource{
			title:    UtilitiesTitle,
			stem:     utilitiesStem,
			category: model.CategoryUtilities,
			methods:  project.Utilities,
		})
	}
	return sources
}

func (p *Processor) buildPage(ctx context.Context, src pageSource) (*model.Page, error) {
	header := &model.Signature{Comment: src.comment}
	description := tags.ExtractDescription(header)
	deprecated, _ := tags.ExtractDeprecated(header)

	methods := make([]*model.Method, len(src.methods))
	copy(methods, src.methods)
	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].Name < methods[j].Name
	})

	infos := make([]*model.MethodInfo, 0, len(methods))
	headers := make([]model.Header, 0, len(methods))
	for _, method := range methods {
		info, err := p.analyzer.AnalyzeSignature(ctx, method.Signature, src.parent, method.Name)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", src.title, err)
		}
		infos = append(infos, info)
		headers = append(headers, model.Header{Anchor: strings.ToLower(method.Name), Text: method.Name})
	}

	diff, err := computeDiff(src.title, description, deprecated, infos)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", src.title, err)
	}

	source, err := p.pageMarkdown(src.title, description, infos)
	if err != nil {
		return nil, err
	}
	content, err := p.renderer.Render(source)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", src.title, err)
	}

	return &model.Page{
		Text:     src.title,
		Link:     p.apiRoot + src.stem + ".html",
		Category: src.category,
		Diff:     diff,
		Headers:  headers,
		Methods:  infos,
		Content:  content,
	}, nil
}
