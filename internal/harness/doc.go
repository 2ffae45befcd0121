// Package harness verifies at run time that the documentation of every
// module method holds up.
//
// For each callable the harness walks a small state machine:
//
//	pending -> materialized -> checked -> done
//	pending -> failed            (the runnable unit could not be written)
//
// The examples of a callable are materialized once into
// <sandbox>/<module>/<method><ext>, and once more with the warning capture
// into <method>.deprecated<ext> next to it. The example check runs the first
// unit and the deprecated check the second, each through a Runner that
// receives the intent ("example" or "deprecated"). The capture rebinds
// console.warn to write marker-prefixed lines to stderr, and only those
// lines of that one subprocess count as warnings. Capture is therefore
// scoped to a single execution even when callables run concurrently, and
// unrelated stderr output such as runtime notices is ignored. A deprecated
// run that exits non-zero fails the check whatever it printed.
//
// Checks:
//   - description: markdown links are valid
//   - example: examples exist and run successfully
//   - deprecated: deprecated callables warn and say why; others stay silent
//   - param: every parameter is described and its links resolve
//   - see: @see references name documented methods
//   - since: @since is a MAJOR.MINOR.PATCH semantic version
//
// Violations never stop other callables. Only structural problems (the
// sandbox cannot be created) and cancellation abort a run. The sandbox is
// removed when Run returns, whatever the outcome.
package harness
