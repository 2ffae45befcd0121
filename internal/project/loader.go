package project

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/docproof/internal/model"
	"github.com/nao1215/docproof/internal/tags"
)

// Loader produces the project model of one run.
type Loader interface {
	Load(ctx context.Context, path string) (*model.Project, error)
}

// FileLoader reads dumps from the local filesystem.
type FileLoader struct{}

// NewFileLoader returns a FileLoader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load reads and validates the dump at path.
func (l *FileLoader) Load(ctx context.Context, path string) (*model.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // the dump path is user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read project %s: %w", path, err)
	}

	p, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// Decode parses a dump in the format named by ext (".json", ".yaml" or
// ".yml") and validates it.
func Decode(data []byte, ext string) (*model.Project, error) {
	var p model.Project
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidProject, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidProject, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the structural rules every later stage relies on: names
// are present, module field names are unique and method names are unique
// within their module.
func Validate(p *model.Project) error {
	if len(p.Modules) == 0 && len(p.Classes) == 0 {
		return ErrEmptyProject
	}

	fields := make(map[string]string, len(p.Modules))
	for i, m := range p.Modules {
		if m == nil || m.Name == "" {
			return fmt.Errorf("%w: module %d has no name", ErrInvalidProject, i)
		}
		field := tags.ExtractModuleFieldName(m)
		if other, ok := fields[field]; ok {
			return fmt.Errorf("%w: modules %s and %s share the field name %q", ErrInvalidProject, other, m.Name, field)
		}
		fields[field] = m.Name
		if err := validateMethods(m.Name, m.Methods); err != nil {
			return err
		}
	}
	for _, c := range p.Classes {
		if c == nil || c.Name == "" {
			return fmt.Errorf("%w: class without a name", ErrInvalidProject)
		}
		if err := validateMethods(c.Name, c.Methods); err != nil {
			return err
		}
	}
	if p.Randomizer != nil {
		if err := validateMethods("Randomizer", p.Randomizer.Methods); err != nil {
			return err
		}
	}
	return validateMethods("utilities", p.Utilities)
}

func validateMethods(owner string, methods []*model.Method) error {
	seen := make(map[string]bool, len(methods))
	for _, m := range methods {
		if m == nil || m.Name == "" {
			return fmt.Errorf("%w: %s has a method without a name", ErrInvalidProject, owner)
		}
		if seen[m.Name] {
			return fmt.Errorf("%w: %s declares %s twice", ErrInvalidProject, owner, m.Name)
		}
		seen[m.Name] = true
	}
	return nil
}
