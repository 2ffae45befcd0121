package harness

import (
	"fmt"
	"os"
	"path/filepath"
)

// sandbox is the temporary directory holding materialized units.
type sandbox struct {
	root string
}

func newSandbox(parent string) (*sandbox, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0o750); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSandbox, err)
		}
	}
	root, err := os.MkdirTemp(parent, "docproof-examples-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSandbox, err)
	}
	return &sandbox{root: root}, nil
}

// write stores source as <root>/<module>/<method><ext> and returns its path.
func (s *sandbox) write(module, method, ext, source string) (string, error) {
	dir := filepath.Join(s.root, module)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create unit directory: %w", err)
	}
	path := filepath.Join(dir, method+ext)
	if err := os.WriteFile(path, []byte(source), 0o600); err != nil {
		return "", fmt.Errorf("failed to write unit: %w", err)
	}
	return path, nil
}

func (s *sandbox) Close() error {
	return os.RemoveAll(s.root)
}
