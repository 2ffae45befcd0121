// Package render converts documentation markdown into HTML and provides the
// small HTML utilities the validators need.
//
// Markdown is rendered with goldmark (GitHub flavored, automatic heading IDs,
// raw HTML passed through). Rendered fragments are memoized in an LRU cache
// because the same descriptions and the "Missing" sentinel repeat across
// hundreds of parameters.
package render
