// Package tags reads documentation tags off reflected signatures.
//
// All functions are pure lookups: they never modify the signature, never
// return errors and treat nil nodes as having no documentation. Missing
// singular tags report ok=false; missing repeatable tags yield an empty slice.
package tags
