package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/docproof/internal/config"
	"github.com/nao1215/docproof/internal/example"
)

// TestNewInitCmd tests the init command creation.
func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()
	if cmd.Use != "init" {
		t.Errorf("expected use 'init', got %q", cmd.Use)
	}

	output := cmd.Flags().Lookup("output")
	if output == nil {
		t.Fatal("expected output flag")
	}
	if output.Shorthand != "o" || output.DefValue != config.DefaultConfigFile {
		t.Errorf("unexpected output flag: -%s default %q", output.Shorthand, output.DefValue)
	}

	force := cmd.Flags().Lookup("force")
	if force == nil {
		t.Fatal("expected force flag")
	}
	if force.Shorthand != "f" || force.DefValue != "false" {
		t.Errorf("unexpected force flag: -%s default %q", force.Shorthand, force.DefValue)
	}
}

// TestRunInitCmd tests the init command execution.
func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	runInit := func(args ...string) (string, error) {
		cmd := NewInitCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return buf.String(), err
	}

	t.Run("creates a loadable config file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nested", config.DefaultConfigFile)

		out, err := runInit("-o", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Created configuration file") {
			t.Errorf("unexpected output: %q", out)
		}

		f, err := config.LoadConfigFile(path)
		if err != nil {
			t.Fatalf("generated file does not load: %v", err)
		}
		if f.Project != "docs/api.json" {
			t.Errorf("expected project docs/api.json, got %q", f.Project)
		}
		if len(f.Runner.Command) != 3 || f.Runner.Command[2] != "{file}" {
			t.Errorf("unexpected runner command: %v", f.Runner.Command)
		}
		if f.Runner.WarningPrefix != example.DefaultWarningMarker {
			t.Errorf("expected warningPrefix %q, got %q", example.DefaultWarningMarker, f.Runner.WarningPrefix)
		}
		if f.Runner.Timeout.Seconds() != 30 {
			t.Errorf("expected 30s timeout, got %s", f.Runner.Timeout)
		}

		cfg := config.NewConfig()
		f.Apply(cfg, filepath.Dir(path))
		if err := cfg.Validate(); err != nil {
			t.Errorf("generated config does not validate: %v", err)
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), config.DefaultConfigFile)
		if err := os.WriteFile(path, []byte("project: keep.json\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := runInit("-o", path); err == nil {
			t.Fatal("expected error for existing file")
		}
		data, err := os.ReadFile(path) //nolint:gosec // test file
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "project: keep.json\n" {
			t.Error("existing file was modified")
		}

		if _, err := runInit("-o", path, "-f"); err != nil {
			t.Fatalf("unexpected error with force: %v", err)
		}
		data, err = os.ReadFile(path) //nolint:gosec // test file
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "runner:") {
			t.Error("expected file to be overwritten with the template")
		}
	})
}
