package example

import "errors"

var (
	// ErrInvalidTemplate is returned when the import or warning capture
	// template does not parse.
	ErrInvalidTemplate = errors.New("invalid example template")

	// ErrEmptyRootIdentifier is returned when no root identifier is configured.
	ErrEmptyRootIdentifier = errors.New("root identifier must not be empty")
)
