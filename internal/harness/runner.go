package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Intent tells a unit which check is executing it.
type Intent string

const (
	IntentExample    Intent = "example"
	IntentDeprecated Intent = "deprecated"
)

// IntentEnvVar carries the Intent into the unit's environment.
const IntentEnvVar = "DOCPROOF_INTENT"

// Placeholders substituted in runner command arguments.
const (
	PlaceholderFile   = "{file}"
	PlaceholderDir    = "{dir}"
	PlaceholderIntent = "{intent}"
)

// DefaultExecTimeout bounds a single execution.
const DefaultExecTimeout = 30 * time.Second

// Execution describes one run of a materialized unit.
type Execution struct {
	Module string
	Method string
	Path   string
	Intent Intent
}

// Outcome is the result of an execution that started.
type Outcome struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Warnings []string
	Duration time.Duration
}

// Succeeded reports whether the unit exited with status zero.
func (o *Outcome) Succeeded() bool {
	return o.ExitCode == 0
}

// Runner executes materialized units. Implementations must be safe for
// concurrent use and must scope captured warnings to a single execution.
type Runner interface {
	Run(ctx context.Context, e Execution) (*Outcome, error)
}

// CommandRunner runs units as subprocesses. Warnings are the stderr lines of
// the subprocess that start with the warning prefix, or every stderr line
// when the prefix is empty.
type CommandRunner struct {
	command       []string
	env           map[string]string
	isolated      bool
	workDir       string
	timeout       time.Duration
	warningPrefix string
	logger        *slog.Logger
}

// RunnerOption configures a CommandRunner.
type RunnerOption func(*CommandRunner)

// WithEnv adds environment variables to every execution.
func WithEnv(env map[string]string) RunnerOption {
	return func(r *CommandRunner) {
		r.env = env
	}
}

// WithIsolatedEnv starts executions from an empty environment instead of
// the parent's, so only WithEnv variables and the intent are visible.
func WithIsolatedEnv(isolated bool) RunnerOption {
	return func(r *CommandRunner) {
		r.isolated = isolated
	}
}

// WithWorkDir sets the working directory of executions.
func WithWorkDir(dir string) RunnerOption {
	return func(r *CommandRunner) {
		r.workDir = dir
	}
}

// WithTimeout bounds a single execution.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *CommandRunner) {
		r.timeout = d
	}
}

// WithWarningPrefix counts only stderr lines starting with prefix as warnings.
func WithWarningPrefix(prefix string) RunnerOption {
	return func(r *CommandRunner) {
		r.warningPrefix = prefix
	}
}

// WithRunnerLogger sets the logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *CommandRunner) {
		r.logger = logger
	}
}

// NewCommandRunner returns a runner for command. Arguments may contain
// {file}, {dir} and {intent}; without {file} the unit path is appended.
func NewCommandRunner(command []string, opts ...RunnerOption) (*CommandRunner, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, ErrEmptyCommand
	}
	r := &CommandRunner{
		command: command,
		timeout: DefaultExecTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	envAttrs := make([]any, 0, len(r.env)*2)
	for _, k := range sortedEnvKeys(r.env) {
		envAttrs = append(envAttrs, k, r.env[k])
	}
	r.logger.Debug("example runner configured",
		"command", strings.Join(command, " "),
		"isolated", r.isolated,
		"timeout", r.timeout,
		slog.Group("env", envAttrs...),
	)
	return r, nil
}

// Run executes the unit. A non-zero exit is reported in the Outcome; an
// error means the process could not run or was cancelled.
func (r *CommandRunner) Run(ctx context.Context, e Execution) (*Outcome, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := r.args(e)
	cmd := exec.Command(args[0], args[1:]...) //nolint:gosec // the command comes from the user's configuration
	cmd.Dir = r.workDir
	cmd.Env = r.environ(e.Intent)
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", args[0], err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var err error
	select {
	case <-ctx.Done():
		killProcessGroup(cmd)
		<-done
		return nil, fmt.Errorf("execution of %s.%s cancelled: %w", e.Module, e.Method, ctx.Err())
	case err = <-done:
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to execute %s: %w", args[0], err)
		}
		exitCode = exitErr.ExitCode()
	}

	return &Outcome{
		ExitCode: exitCode,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Warnings: r.warnings(stderr.String()),
		Duration: time.Since(start),
	}, nil
}

func (r *CommandRunner) args(e Execution) []string {
	replacer := strings.NewReplacer(
		PlaceholderFile, e.Path,
		PlaceholderDir, filepath.Dir(e.Path),
		PlaceholderIntent, string(e.Intent),
	)
	args := make([]string, 0, len(r.command)+1)
	hasFile := false
	for _, a := range r.command {
		if strings.Contains(a, PlaceholderFile) {
			hasFile = true
		}
		args = append(args, replacer.Replace(a))
	}
	if !hasFile {
		args = append(args, e.Path)
	}
	return args
}

func (r *CommandRunner) environ(intent Intent) []string {
	var env []string
	if !r.isolated {
		env = os.Environ()
	}
	for _, k := range sortedEnvKeys(r.env) {
		env = append(env, k+"="+r.env[k])
	}
	return append(env, IntentEnvVar+"="+string(intent))
}

func (r *CommandRunner) warnings(stderr string) []string {
	var out []string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r.warningPrefix != "" && !strings.HasPrefix(line, r.warningPrefix) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func sortedEnvKeys(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
