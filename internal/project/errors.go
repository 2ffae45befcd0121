package project

import "errors"

var (
	// ErrUnsupportedFormat is returned for dump files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported project format")

	// ErrEmptyProject is returned when the dump documents nothing.
	ErrEmptyProject = errors.New("project has no modules or classes")

	// ErrInvalidProject is returned when the dump is structurally unusable.
	ErrInvalidProject = errors.New("invalid project")
)
