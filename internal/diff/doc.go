// Package diff compares two diff indexes and lists what changed between them:
// pages added or removed, page headers changed, and methods added, removed
// or changed.
package diff
