// Package server previews generated documentation artifacts over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"html"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nao1215/docproof/internal/index"
	"github.com/nao1215/docproof/internal/model"
	"github.com/nao1215/docproof/internal/render"
)

// DefaultSearchLimit caps /search results when no limit is given.
const DefaultSearchLimit = 20

// Server serves an output directory written by index.Writer.
type Server struct {
	router    chi.Router
	outputDir string
	apiRoot   string
	renderer  render.Renderer
	log       *slog.Logger

	mu     sync.RWMutex
	search []model.SearchRecord
	loaded bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithAPIRoot sets the path prefix of rendered API pages.
func WithAPIRoot(root string) Option {
	return func(s *Server) {
		s.apiRoot = root
	}
}

// New creates a Server for outputDir. API pages are rendered to HTML by
// renderer on every request.
func New(outputDir string, renderer render.Renderer, opts ...Option) *Server {
	s := &Server{
		outputDir: outputDir,
		apiRoot:   "/api/",
		renderer:  renderer,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Reload drops the cached search index so the next search reads it again.
func (s *Server) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = nil
	s.loaded = false
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/search", s.handleSearch)
	r.Get(path.Join(s.apiRoot, "{page}"), s.handlePage)
	r.Handle("/*", http.FileServer(http.Dir(s.outputDir)))

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}

	limit := DefaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := s.searchIndex()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			jsonError(w, "search index not generated yet", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to read search index: "+err.Error(), http.StatusInternalServerError)
		return
	}

	results := index.Search(records, query)
	if len(results) > limit {
		results = results[:limit]
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"query":   query,
		"results": results,
	})
}

func (s *Server) searchIndex() ([]model.SearchRecord, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.search, nil
	}
	s.mu.RUnlock()

	records, err := index.ReadSearchIndex(filepath.Join(s.outputDir, index.SearchIndexFile))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = records
	s.loaded = true
	return records, nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "page")
	if name == "" || strings.ContainsAny(name, `/\`) || !strings.HasSuffix(name, ".html") {
		http.NotFound(w, r)
		return
	}

	file := filepath.Join(s.outputDir, filepath.FromSlash(strings.TrimPrefix(s.apiRoot, "/")), name)
	content, err := os.ReadFile(file) //nolint:gosec // name is a single path element
	if err != nil {
		http.NotFound(w, r)
		return
	}

	body, err := s.renderer.Render(string(content))
	if err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>" +
		html.EscapeString(strings.TrimSuffix(name, ".html")) +
		"</title></head><body>\n" + body + "</body></html>\n"))
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
