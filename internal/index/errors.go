package index

import "errors"

var (
	// ErrDuplicateTitle is returned when two pages share a title.
	ErrDuplicateTitle = errors.New("duplicate page title")

	// ErrEmptyOutputDir is returned when the writer has no output directory.
	ErrEmptyOutputDir = errors.New("output directory must not be empty")
)
