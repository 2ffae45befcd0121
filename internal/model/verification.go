package model

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Check names a verification check.
type Check string

const (
	CheckDescription Check = "description"
	CheckExample     Check = "example"
	CheckDeprecated  Check = "deprecated"
	CheckParam       Check = "param"
	CheckSee         Check = "see"
	CheckSince       Check = "since"
)

// AllChecks lists the checks in the order they run for a callable.
var AllChecks = []Check{
	CheckDescription,
	CheckExample,
	CheckDeprecated,
	CheckParam,
	CheckSee,
	CheckSince,
}

// CallableState tracks one callable through verification.
type CallableState int

const (
	StatePending CallableState = iota
	StateMaterialized
	StateChecked
	StateDone
	StateFailed
)

// String returns the state name.
func (s CallableState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateMaterialized:
		return "materialized"
	case StateChecked:
		return "checked"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s CallableState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *CallableState) UnmarshalText(text []byte) error {
	for c := StatePending; c <= StateFailed; c++ {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown callable state %q", text)
}

// Violation is a single failed check on a callable.
type Violation struct {
	Module  string `json:"module"`
	Method  string `json:"method"`
	Check   Check  `json:"check"`
	Message string `json:"message"`
}

// Error implements error.
func (v Violation) Error() string {
	return fmt.Sprintf("%s.%s [%s]: %s", v.Module, v.Method, v.Check, v.Message)
}

// CheckResult records the outcome of one check.
type CheckResult struct {
	Check  Check `json:"check"`
	Passed bool  `json:"passed"`
}

// CallableResult is the verification outcome of one callable.
type CallableResult struct {
	Module     string        `json:"module"`
	Method     string        `json:"method"`
	State      CallableState `json:"state"`
	Checks     []CheckResult `json:"checks"`
	Violations []Violation   `json:"violations,omitempty"`
}

// Passed reports whether every check passed.
func (r *CallableResult) Passed() bool {
	return len(r.Violations) == 0
}

// VerificationReport aggregates the outcome of one verification run.
type VerificationReport struct {
	RunID     string            `json:"run_id"`
	Project   string            `json:"project"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration"`
	Callables []*CallableResult `json:"callables"`
}

// Violations returns all violations in callable order.
func (r *VerificationReport) Violations() []Violation {
	var out []Violation
	for _, c := range r.Callables {
		out = append(out, c.Violations...)
	}
	return out
}

// FailedCount returns the number of callables with at least one violation.
func (r *VerificationReport) FailedCount() int {
	n := 0
	for _, c := range r.Callables {
		if !c.Passed() {
			n++
		}
	}
	return n
}

// Err folds every violation into one error, or returns nil when all passed.
func (r *VerificationReport) Err() error {
	var result *multierror.Error
	for _, v := range r.Violations() {
		result = multierror.Append(result, v)
	}
	return result.ErrorOrNil()
}
