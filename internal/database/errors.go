package database

import "errors"

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("run not found")
