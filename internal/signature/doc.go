// Package signature turns a reflected signature into render-ready method
// documentation, combining parameter types from the model with @param
// descriptions. Parameters without any description carry MissingDescription
// so the harness can report them.
package signature
