// Package main provides the entry point for the docproof CLI.
//
// docproof turns the reflected API dump of a faker-style generator library
// into documentation pages and index artifacts, and verifies that every
// documented callable carries working examples and valid cross references.
//
// Usage:
//
//	docproof generate --project api.json
//	docproof verify --project api.json
//
// See --help for all available options.
package main

// main is the entry point for docproof.
func main() {
	Execute()
}
