package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/docproof/internal/database"
	"github.com/nao1215/docproof/internal/diff"
	"github.com/nao1215/docproof/internal/index"
	"github.com/nao1215/docproof/internal/page"
	"github.com/nao1215/docproof/internal/project"
	"github.com/nao1215/docproof/internal/render"
	"github.com/nao1215/docproof/internal/signature"
)

const projectV1 = `{
  "name": "faker",
  "modules": [
    {
      "name": "NumberModule",
      "methods": [
        {"name": "int", "signature": {"name": "int", "comment": {"summary": "Returns an integer."}}}
      ]
    }
  ]
}`

const projectV2 = `{
  "name": "faker",
  "modules": [
    {
      "name": "NumberModule",
      "methods": [
        {"name": "int", "signature": {"name": "int", "comment": {"summary": "Returns an integer."}}},
        {"name": "float", "signature": {"name": "float", "comment": {"summary": "Returns a float."}}}
      ]
    }
  ]
}`

func writeProject(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "api.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write project: %v", err)
	}
	return path
}

func generatePipeline(t *testing.T, outDir string, store BaselineStore) *Pipeline {
	t.Helper()

	r, err := render.NewMarkdown()
	if err != nil {
		t.Fatalf("NewMarkdown() error = %v", err)
	}
	processor := page.NewProcessor(signature.NewAnalyzer(r), r)

	p := New()
	p.AddSteps(
		NewLoadStep(project.NewFileLoader()),
		NewPagesStep(processor),
		NewIndexStep(index.NewWriter(outDir), processor),
		NewCompareBaselineStep(store, nil),
		NewSaveBaselineStep(store),
	)
	return p
}

// TestGenerate tests a full generate run twice against one baseline store.
func TestGenerate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := database.Open(filepath.Join(dir, "db"), database.DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	outDir := filepath.Join(dir, "out")
	ctx := context.Background()

	first := NewBuild("run1", writeProject(t, dir, projectV1), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := generatePipeline(t, outDir, store).Execute(ctx, first); err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.Comparison != nil {
		t.Error("first run has no baseline to compare with")
	}
	if len(first.PerformedSteps) != 5 {
		t.Errorf("performed = %v", first.PerformedSteps)
	}
	if _, err := os.Stat(first.Artifacts.DiffIndex); err != nil {
		t.Errorf("diff index not written: %v", err)
	}

	second := NewBuild("run2", writeProject(t, dir, projectV2), time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	if err := generatePipeline(t, outDir, store).Execute(ctx, second); err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if second.BaselineRunID != "run1" {
		t.Errorf("BaselineRunID = %q, want run1", second.BaselineRunID)
	}
	if second.Comparison.Count(diff.MethodAdded) != 1 {
		t.Errorf("changes = %+v", second.Comparison.Changes)
	}

	latest, err := store.LatestDiffIndexes(ctx, "faker", 1)
	if err != nil {
		t.Fatalf("LatestDiffIndexes() error = %v", err)
	}
	if len(latest) != 1 || latest[0].ID != "run2" {
		t.Errorf("latest baseline = %+v", latest)
	}
}

// TestSteps_RequireProject tests that steps after loading refuse to run
// without a project.
func TestSteps_RequireProject(t *testing.T) {
	t.Parallel()

	r, err := render.NewMarkdown()
	if err != nil {
		t.Fatalf("NewMarkdown() error = %v", err)
	}
	processor := page.NewProcessor(signature.NewAnalyzer(r), r)

	steps := []Step{
		NewPagesStep(processor),
		NewIndexStep(index.NewWriter(t.TempDir()), processor),
		NewCompareBaselineStep(nil, nil),
		NewSaveBaselineStep(nil),
	}
	for _, s := range steps {
		if err := s.Do(context.Background(), newTestBuild()); !errors.Is(err, ErrNoProject) {
			t.Errorf("%s: expected ErrNoProject, got %v", s.Name(), err)
		}
	}
}

// TestLoadStep_Error tests that a missing dump fails the load step.
func TestLoadStep_Error(t *testing.T) {
	t.Parallel()

	build := NewBuild("run1", filepath.Join(t.TempDir(), "missing.json"), time.Now())
	if err := NewLoadStep(project.NewFileLoader()).Do(context.Background(), build); err == nil {
		t.Error("expected error")
	}
	if build.Project != nil {
		t.Error("project must stay nil on failure")
	}
}
