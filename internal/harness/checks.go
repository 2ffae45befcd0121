package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/docproof/internal/model"
	"github.com/nao1215/docproof/internal/reference"
	"github.com/nao1215/docproof/internal/signature"
	"github.com/nao1215/docproof/internal/tags"
)

// stderrTailLines is how much of a failing unit's stderr goes into a violation.
const stderrTailLines = 5

// deprecationSuffix names the warning capture unit next to the plain one.
const deprecationSuffix = ".deprecated"

// unit is the materialized state of one callable: the plain unit and the
// warning capture unit run under IntentDeprecated.
type unit struct {
	path        string
	capturePath string
	err         error
}

// verify runs every check for c. The returned error is non-nil only when
// ctx was cancelled.
func (h *Harness) verify(ctx context.Context, box *sandbox, validator *reference.Validator, c callable) (*model.CallableResult, error) {
	name := c.method.Name
	sig := c.method.Signature
	res := &model.CallableResult{Module: c.module, Method: name, State: model.StatePending}

	extracted := tags.Extract(sig)
	joined := tags.ExtractJoinedRawExamples(sig)
	u := h.materialize(box, c.module, name, joined)
	if u.err != nil {
		h.transition(res, model.StateFailed)
	} else {
		h.transition(res, model.StateMaterialized)
	}

	for _, check := range model.AllChecks {
		var msgs []string
		switch check {
		case model.CheckDescription:
			msgs = errorMessages(validator.ValidateDescription(extracted.Description))
		case model.CheckExample:
			msgs = h.checkExample(ctx, c.module, name, u, joined)
		case model.CheckDeprecated:
			msgs = h.checkDeprecated(ctx, c.module, name, u, extracted)
		case model.CheckParam:
			msgs = h.checkParams(ctx, validator, c.module, name, sig)
		case model.CheckSee:
			for _, see := range extracted.SeeAlsos {
				msgs = append(msgs, errorMessages(validator.ValidateSeeAlso(see))...)
			}
		case model.CheckSince:
			if err := ValidateSince(extracted.Since, extracted.HasSince); err != nil {
				msgs = []string{err.Error()}
			}
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Checks = append(res.Checks, model.CheckResult{Check: check, Passed: len(msgs) == 0})
		for _, msg := range msgs {
			res.Violations = append(res.Violations, model.Violation{
				Module:  c.module,
				Method:  name,
				Check:   check,
				Message: msg,
			})
		}
	}

	if res.State == model.StateMaterialized {
		h.transition(res, model.StateChecked)
		h.transition(res, model.StateDone)
	}

	h.logger.Debug("callable verified",
		"module", c.module,
		"method", name,
		"state", res.State,
		"violations", len(res.Violations),
	)
	return res, nil
}

func (h *Harness) materialize(box *sandbox, module, method, joined string) unit {
	ex, err := h.materializer.Materialize(module, method, joined)
	if err != nil {
		return unit{err: err}
	}
	path, err := box.write(module, method, h.extension, ex.Source)
	if err != nil {
		return unit{err: err}
	}

	capture, err := h.materializer.MaterializeWarningCapture(module, method, joined)
	if err != nil {
		return unit{err: err}
	}
	capturePath, err := box.write(module, method+deprecationSuffix, h.extension, capture.Source)
	if err != nil {
		return unit{err: err}
	}
	return unit{path: path, capturePath: capturePath}
}

func (h *Harness) checkExample(ctx context.Context, module, method string, u unit, joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return []string{"no examples documented"}
	}
	if u.err != nil {
		return []string{"materialization failed: " + u.err.Error()}
	}

	out, err := h.runner.Run(ctx, Execution{Module: module, Method: method, Path: u.path, Intent: IntentExample})
	if err != nil {
		return []string{"example could not run: " + err.Error()}
	}
	if !out.Succeeded() {
		return []string{fmt.Sprintf("example exited with status %d: %s", out.ExitCode, tail(string(out.Stderr), stderrTailLines))}
	}
	return nil
}

func (h *Harness) checkDeprecated(ctx context.Context, module, method string, u unit, extracted model.ExtractedTags) []string {
	if u.err != nil {
		return []string{"materialization failed: " + u.err.Error()}
	}

	out, err := h.runner.Run(ctx, Execution{Module: module, Method: method, Path: u.capturePath, Intent: IntentDeprecated})
	if err != nil {
		return []string{"deprecation check could not run: " + err.Error()}
	}
	// A unit that fails observes nothing, whatever it printed.
	if !out.Succeeded() {
		return []string{fmt.Sprintf("deprecation check exited with status %d: %s", out.ExitCode, tail(string(out.Stderr), stderrTailLines))}
	}

	var msgs []string
	if extracted.IsDeprecated {
		if len(out.Warnings) == 0 {
			msgs = append(msgs, "deprecated but running the examples emitted no warning")
		}
		if extracted.Deprecated == "" {
			msgs = append(msgs, "@deprecated tag has no message")
		}
		return msgs
	}
	if len(out.Warnings) > 0 {
		msgs = append(msgs, fmt.Sprintf("not deprecated but emitted %d warning(s), first: %s", len(out.Warnings), out.Warnings[0]))
	}
	return msgs
}

func (h *Harness) checkParams(ctx context.Context, validator *reference.Validator, module, method string, sig *model.Signature) []string {
	info, err := h.analyzer.AnalyzeSignature(ctx, sig, module, method)
	if err != nil {
		return []string{"signature analysis failed: " + err.Error()}
	}
	var msgs []string
	for _, p := range info.Parameters {
		if signature.IsMissing(p.Description) {
			msgs = append(msgs, fmt.Sprintf("parameter %s has no description", p.Name))
		}
		for _, err := range validator.ValidateHTML(p.Description) {
			msgs = append(msgs, fmt.Sprintf("parameter %s: %v", p.Name, err))
		}
	}
	return msgs
}

func errorMessages(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}

// tail returns the last n non-empty lines of s joined by " | ".
func tail(s string, n int) string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	if len(lines) == 0 {
		return "no output"
	}
	return strings.Join(lines, " | ")
}
