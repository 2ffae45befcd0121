package page

import "errors"

// ErrNilProject is returned when Process is called without a project.
var ErrNilProject = errors.New("project is nil")
