//go:build unix

package harness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/docproof/internal/example"
	"github.com/nao1215/docproof/internal/model"
	"github.com/nao1215/docproof/internal/render"
	"github.com/nao1215/docproof/internal/signature"
)

func writeUnit(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "unit.sh")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write unit: %v", err)
	}
	return path
}

// TestCommandRunner_Run tests subprocess execution and warning capture.
func TestCommandRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("success with intent and env", func(t *testing.T) {
		t.Parallel()

		r, err := NewCommandRunner([]string{"sh", "{file}"}, WithEnv(map[string]string{"GREETING": "hi"}))
		if err != nil {
			t.Fatalf("NewCommandRunner() error = %v", err)
		}
		path := writeUnit(t, `echo "$GREETING $DOCPROOF_INTENT"`)
		out, err := r.Run(context.Background(), Execution{Path: path, Intent: IntentExample})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !out.Succeeded() || strings.TrimSpace(string(out.Stdout)) != "hi example" {
			t.Errorf("outcome = exit %d stdout %q", out.ExitCode, out.Stdout)
		}
		if len(out.Warnings) != 0 {
			t.Errorf("Warnings = %q, want none", out.Warnings)
		}
	})

	t.Run("only stderr lines starting with the prefix are warnings", func(t *testing.T) {
		t.Parallel()

		r, err := NewCommandRunner([]string{"sh"}, WithWarningPrefix("[faker]"))
		if err != nil {
			t.Fatalf("NewCommandRunner() error = %v", err)
		}
		path := writeUnit(t, "echo '[faker]: old is deprecated' >&2\necho 'noise' >&2\necho 'Error: see [faker] docs' >&2\n")
		out, err := r.Run(context.Background(), Execution{Path: path, Intent: IntentDeprecated})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(out.Warnings) != 1 || !strings.Contains(out.Warnings[0], "old is deprecated") {
			t.Errorf("Warnings = %q", out.Warnings)
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		t.Parallel()

		r, err := NewCommandRunner([]string{"sh", "{file}"})
		if err != nil {
			t.Fatalf("NewCommandRunner() error = %v", err)
		}
		out, err := r.Run(context.Background(), Execution{Path: writeUnit(t, "exit 3"), Intent: IntentExample})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if out.Succeeded() || out.ExitCode != 3 {
			t.Errorf("ExitCode = %d, want 3", out.ExitCode)
		}
	})

	t.Run("isolated env hides parent variables", func(t *testing.T) {
		t.Parallel()

		r, err := NewCommandRunner([]string{"/bin/sh", "{file}"}, WithIsolatedEnv(true))
		if err != nil {
			t.Fatalf("NewCommandRunner() error = %v", err)
		}
		out, err := r.Run(context.Background(), Execution{Path: writeUnit(t, `echo "[$HOME]"`), Intent: IntentExample})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if strings.TrimSpace(string(out.Stdout)) != "[]" {
			t.Errorf("stdout = %q, want []", out.Stdout)
		}
	})

	t.Run("timeout kills the unit", func(t *testing.T) {
		t.Parallel()

		r, err := NewCommandRunner([]string{"sh", "{file}"}, WithTimeout(100*time.Millisecond))
		if err != nil {
			t.Fatalf("NewCommandRunner() error = %v", err)
		}
		_, err = r.Run(context.Background(), Execution{Path: writeUnit(t, "sleep 10"), Intent: IntentExample})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("error = %v, want deadline exceeded", err)
		}
	})

	t.Run("missing binary", func(t *testing.T) {
		t.Parallel()

		r, err := NewCommandRunner([]string{"docproof-no-such-binary"})
		if err != nil {
			t.Fatalf("NewCommandRunner() error = %v", err)
		}
		if _, err := r.Run(context.Background(), Execution{Path: "x", Intent: IntentExample}); err == nil {
			t.Error("expected start error")
		}
	})
}

// TestNewCommandRunner_Empty tests command validation.
func TestNewCommandRunner_Empty(t *testing.T) {
	t.Parallel()

	if _, err := NewCommandRunner(nil); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("error = %v, want ErrEmptyCommand", err)
	}
}

// shellMethod documents a module method whose example is a shell body. The
// leading comment names the entry point so the import line is emitted.
func shellMethod(name, body string, extra ...model.Tag) *model.Method {
	m := documented(name, extra...)
	for i, bt := range m.Signature.Comment.BlockTags {
		if bt.Tag == "@example" {
			m.Signature.Comment.BlockTags[i] = tag("@example", "# faker.number."+name+"()\n"+body)
		}
	}
	return m
}

// TestHarness_DeprecationWithCommandRunner tests the deprecated check end to
// end: only captured warning calls count, and a failing run observes nothing.
func TestHarness_DeprecationWithCommandRunner(t *testing.T) {
	t.Parallel()

	// The library stands in for the entry module: its methods warn through
	// console_warn, which the capture rebinds like console.warn.
	lib := filepath.Join(t.TempDir(), "lib.sh")
	libSource := "console_warn() { :; }\n" +
		"legacy() { console_warn \"faker.number.legacy() is deprecated\"; }\n" +
		"plain() { :; }\n"
	if err := os.WriteFile(lib, []byte(libSource), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := example.New(
		example.WithEntryModule(lib),
		example.WithImportTemplate(". {{ .EntryModule }}"),
		example.WithWarningCapture(`console_warn() { echo "{{ .Marker }} $*" >&2; }`),
	)
	if err != nil {
		t.Fatalf("example.New() error = %v", err)
	}
	runner, err := NewCommandRunner([]string{"sh", "{file}"}, WithWarningPrefix(m.WarningMarker()))
	if err != nil {
		t.Fatalf("NewCommandRunner() error = %v", err)
	}
	r, err := render.NewMarkdown()
	if err != nil {
		t.Fatal(err)
	}

	deprecated := tag("@deprecated", "Use int.")
	project := &model.Project{Modules: []*model.Module{{
		Name: "NumberModule",
		Methods: []*model.Method{
			shellMethod("legacy", "legacy", deprecated),
			shellMethod("crashing", "echo 'TypeError: faker.number.crashing is not a function' >&2\nexit 1", deprecated),
			shellMethod("silent", "plain", deprecated),
			shellMethod("plain", "plain\necho 'ExperimentalWarning: VM modules' >&2"),
			shellMethod("warns", "legacy"),
			shellMethod("failing", "echo 'TypeError: boom' >&2\nexit 2"),
		},
	}}}

	h := New(runner, m, signature.NewAnalyzer(r), WithConcurrency(3), WithExtension(".sh"), WithSandboxParent(t.TempDir()))
	report, err := h.Run(context.Background(), project)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	deprecatedMsgs := make(map[string][]string)
	for _, v := range report.Violations() {
		if v.Check == model.CheckDeprecated {
			deprecatedMsgs[v.Method] = append(deprecatedMsgs[v.Method], v.Message)
		}
	}

	tests := []struct {
		method string
		want   string
	}{
		{method: "legacy"},
		{method: "crashing", want: "exited with status 1"},
		{method: "silent", want: "emitted no warning"},
		{method: "plain"},
		{method: "warns", want: "not deprecated but emitted 1 warning(s)"},
		{method: "failing", want: "exited with status 2"},
	}
	for _, tt := range tests {
		msgs := deprecatedMsgs[tt.method]
		if tt.want == "" {
			if len(msgs) != 0 {
				t.Errorf("%s: deprecated violations = %q, want none", tt.method, msgs)
			}
			continue
		}
		if len(msgs) != 1 || !strings.Contains(msgs[0], tt.want) {
			t.Errorf("%s: deprecated violations = %q, want one containing %q", tt.method, msgs, tt.want)
		}
	}
	if msg := deprecatedMsgs["warns"]; len(msg) == 1 && !strings.Contains(msg[0], example.DefaultWarningMarker+" faker.number.legacy() is deprecated") {
		t.Errorf("warns: message %q does not quote the captured warning", msg[0])
	}
}
