package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoProjectFile is returned when no project dump path is configured.
	ErrNoProjectFile = errors.New("no project file specified: use --project or set project in .docproof.yaml")

	// ErrNoOutputDir is returned when the artifact directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidTimeout is returned when the example timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid exec timeout: must be positive")

	// ErrInvalidConcurrency is returned when the worker count is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrNoRunnerCommand is returned when the example runner command is empty.
	ErrNoRunnerCommand = errors.New("no runner command specified")

	// ErrInvalidAPIRoot is returned when the API root does not start and end with "/".
	ErrInvalidAPIRoot = errors.New("invalid api root: must start and end with '/'")

	// ErrInvalidExtension is returned when the example extension lacks a leading dot.
	ErrInvalidExtension = errors.New("invalid example extension: must start with '.'")

	// ErrInvalidDocsURL is returned when the docs base URL is not absolute.
	ErrInvalidDocsURL = errors.New("invalid docs url: must be an absolute http(s) URL")
)
