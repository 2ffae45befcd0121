package index

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/docproof/internal/model"
)

// Artifact file names, relative to the output directory.
const (
	PagesIndexFile    = "api-pages.json"
	DiffIndexFile     = "api-diff-index.json"
	SearchIndexFile   = "api-search-index.json"
	SourceBaseURLFile = "source-base-url.txt"
)

// Artifacts lists the files written by a Writer.
type Artifacts struct {
	PagesIndex    string   `json:"pages_index"`
	DiffIndex     string   `json:"diff_index"`
	SearchIndex   string   `json:"search_index"`
	SourceBaseURL string   `json:"source_base_url"`
	Pages         []string `json:"pages"`
}

// Writer writes index artifacts into an output directory.
type Writer struct {
	outputDir   string
	prettyPrint bool
	logger      *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithPrettyPrint indents the JSON artifacts.
func WithPrettyPrint(pretty bool) WriterOption {
	return func(w *Writer) {
		w.prettyPrint = pretty
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = logger
	}
}

// NewWriter returns a Writer for outputDir.
func NewWriter(outputDir string, opts ...WriterOption) *Writer {
	w := &Writer{outputDir: outputDir}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// Write builds every index from pages and writes the artifacts. Nothing is
// written when the diff index cannot be built.
func (w *Writer) Write(pages []*model.Page, sourceBaseURL string) (*Artifacts, error) {
	if w.outputDir == "" {
		return nil, ErrEmptyOutputDir
	}

	diffIndex, err := BuildDiffIndex(pages)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(w.outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	art := &Artifacts{
		PagesIndex:    filepath.Join(w.outputDir, PagesIndexFile),
		DiffIndex:     filepath.Join(w.outputDir, DiffIndexFile),
		SearchIndex:   filepath.Join(w.outputDir, SearchIndexFile),
		SourceBaseURL: filepath.Join(w.outputDir, SourceBaseURLFile),
	}

	if err := w.writeJSON(art.PagesIndex, BuildPagesIndex(pages)); err != nil {
		return nil, err
	}
	if err := w.writeJSON(art.DiffIndex, diffIndex); err != nil {
		return nil, err
	}
	if err := w.writeJSON(art.SearchIndex, BuildSearchIndex(pages)); err != nil {
		return nil, err
	}
	if err := os.WriteFile(art.SourceBaseURL, []byte(sourceBaseURL), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", SourceBaseURLFile, err)
	}

	for _, p := range pages {
		path := filepath.Join(w.outputDir, filepath.FromSlash(strings.TrimPrefix(p.Link, "/")))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create page directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(p.Content), 0o600); err != nil {
			return nil, fmt.Errorf("failed to write page %s: %w", p.Text, err)
		}
		art.Pages = append(art.Pages, path)
	}

	w.logger.Info("index artifacts written",
		"output", w.outputDir,
		"pages", len(pages),
	)
	return art, nil
}

func (w *Writer) writeJSON(path string, v any) error {
	var (
		data []byte
		err  error
	)
	if w.prettyPrint {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadSearchIndex loads a search index written by Writer.
func ReadSearchIndex(path string) ([]model.SearchRecord, error) {
	var records []model.SearchRecord
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadDiffIndex loads a diff index written by Writer.
func ReadDiffIndex(path string) (model.DiffIndex, error) {
	var idx model.DiffIndex
	if err := readJSON(path, &idx); err != nil {
		return nil, err
	}
	return idx, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the configured output directory
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
