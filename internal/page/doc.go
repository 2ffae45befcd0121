// Package page assembles the API documentation pages of a project.
//
// Pages are produced in a fixed order: classes as loaded, modules sorted by
// title with English collation, the randomizer, then the utilities. Each page
// carries a PageDiff of SHA3-256 hashes so that a later run can tell which
// pages and methods changed.
package page
