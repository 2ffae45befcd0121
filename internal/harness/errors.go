package harness

import "errors"

var (
	// ErrNilProject is returned when Run is called without a project.
	ErrNilProject = errors.New("project is nil")

	// ErrEmptyCommand is returned when a CommandRunner has no command.
	ErrEmptyCommand = errors.New("runner command must not be empty")

	// ErrSandbox is returned when the example sandbox cannot be prepared.
	ErrSandbox = errors.New("failed to prepare example sandbox")

	// ErrMissingSince is returned for callables without @since.
	ErrMissingSince = errors.New("missing @since tag")

	// ErrInvalidSince is returned when @since is not a semantic version.
	ErrInvalidSince = errors.New("@since is not a MAJOR.MINOR.PATCH semantic version")
)
