// Package index serializes processed pages into the artifacts consumed by
// the documentation site: the pages index, the diff index, the search index,
// the source base URL marker and one HTML body per page.
//
// # Artifacts
//
//	api-pages.json         ordered [{text, link}]
//	api-diff-index.json    {title: {moduleHash, <method>: hash}}
//	api-search-index.json  [{title, link, category, headers, keywords}]
//	source-base-url.txt    repository URL prefix ending in /blob/<commit>/
//	api/<field>.html       rendered page bodies
//
// A duplicate page title is a structural error: BuildDiffIndex fails with
// ErrDuplicateTitle and nothing is written.
package index
