// Package project loads the reflected API dump of the documented library
// into a model.Project. JSON and YAML dumps are supported; the format is
// chosen by file extension.
package project
