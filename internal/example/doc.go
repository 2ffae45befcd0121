// Package example turns raw @example bodies into self-contained runnable
// units by prepending an import of every entry point the body references.
package example
