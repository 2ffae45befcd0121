package render

import (
	"bytes"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// DefaultCacheSize is the number of rendered fragments kept in memory.
const DefaultCacheSize = 4096

// Renderer converts markdown text into HTML.
type Renderer interface {
	Render(text string) (string, error)
}

// Markdown is the goldmark backed Renderer. It is safe for concurrent use.
type Markdown struct {
	md        goldmark.Markdown
	cache     *lru.Cache[string, string]
	cacheSize int
}

// Option configures Markdown.
type Option func(*Markdown)

// WithCacheSize sets the LRU size. Zero or less disables caching.
func WithCacheSize(size int) Option {
	return func(m *Markdown) {
		m.cacheSize = size
	}
}

// NewMarkdown returns a Markdown renderer.
func NewMarkdown(opts ...Option) (*Markdown, error) {
	m := &Markdown{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(m)
	}

	m.md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
	)

	if m.cacheSize > 0 {
		cache, err := lru.New[string, string](m.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create render cache: %w", err)
		}
		m.cache = cache
	}
	return m, nil
}

// Render converts text to HTML.
func (m *Markdown) Render(text string) (string, error) {
	if m.cache != nil {
		if out, ok := m.cache.Get(text); ok {
			return out, nil
		}
	}

	var buf bytes.Buffer
	if err := m.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	out := buf.String()

	if m.cache != nil {
		m.cache.Add(text, out)
	}
	return out, nil
}

// CacheLen returns the number of cached fragments.
func (m *Markdown) CacheLen() int {
	if m.cache == nil {
		return 0
	}
	return m.cache.Len()
}
