// Package pipeline runs the documentation build as a sequence of steps:
// loading the project, building pages, writing the index artifacts and
// comparing against the stored baseline. Each step receives the shared
// Build state and adds its output to it.
package pipeline
