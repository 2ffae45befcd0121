package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nao1215/docproof/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// TestOpen tests store creation options.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database", func(t *testing.T) {
		t.Parallel()

		s := openTestStore(t)
		if s.Path() == "" {
			t.Error("Path() is empty")
		}
	})

	t.Run("requires existing database without create", func(t *testing.T) {
		t.Parallel()

		if _, err := Open(t.TempDir(), Options{}); err == nil {
			t.Error("expected error for missing database")
		}
	})
}

// TestStore_DiffIndexes tests baseline storage and lookup.
func TestStore_DiffIndexes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	first := model.DiffIndex{"Number": {model.ModuleHashKey: "a", "int": "b"}}
	second := model.DiffIndex{"Number": {model.ModuleHashKey: "a", "int": "c"}, "Word": {model.ModuleHashKey: "w"}}

	if err := s.SaveDiffIndex(ctx, "faker", "run1", base, first); err != nil {
		t.Fatalf("SaveDiffIndex() error = %v", err)
	}
	if err := s.SaveDiffIndex(ctx, "faker", "run2", base.Add(time.Minute), second); err != nil {
		t.Fatalf("SaveDiffIndex() error = %v", err)
	}
	if err := s.SaveDiffIndex(ctx, "other", "run3", base, first); err != nil {
		t.Fatalf("SaveDiffIndex() error = %v", err)
	}

	latest, err := s.LatestDiffIndexes(ctx, "faker", 2)
	if err != nil {
		t.Fatalf("LatestDiffIndexes() error = %v", err)
	}
	if len(latest) != 2 || latest[0].ID != "run2" || latest[1].ID != "run1" {
		t.Fatalf("LatestDiffIndexes() = %+v", latest)
	}
	if latest[0].Index["Number"]["int"] != "c" {
		t.Errorf("stored index = %+v", latest[0].Index)
	}
	if latest[0].Summary["pages"] != 2 || latest[0].Summary["methods"] != 1 {
		t.Errorf("summary = %+v", latest[0].Summary)
	}
	if !latest[1].Timestamp.Equal(base) {
		t.Errorf("timestamp = %v, want %v", latest[1].Timestamp, base)
	}

	got, err := s.DiffIndexByRunID(ctx, "run1")
	if err != nil {
		t.Fatalf("DiffIndexByRunID() error = %v", err)
	}
	if got.Project != "faker" || got.Kind != KindGenerate {
		t.Errorf("DiffIndexByRunID() = %+v", got)
	}
	if _, err := s.DiffIndexByRunID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	projects, err := s.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(projects) != 2 || projects[0] != "faker" || projects[1] != "other" {
		t.Errorf("ListProjects() = %v", projects)
	}
}

// TestStore_Verification tests verification history.
func TestStore_Verification(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	report := &model.VerificationReport{
		RunID:     "verify1",
		Project:   "faker",
		StartedAt: time.Now(),
		Callables: []*model.CallableResult{
			{Module: "number", Method: "int"},
			{Module: "number", Method: "float", Violations: []model.Violation{
				{Module: "number", Method: "float", Check: model.CheckSince, Message: "missing @since tag"},
			}},
		},
	}
	if err := s.SaveVerification(ctx, report); err != nil {
		t.Fatalf("SaveVerification() error = %v", err)
	}
	if err := s.SaveDiffIndex(ctx, "faker", "gen1", time.Now(), model.DiffIndex{}); err != nil {
		t.Fatalf("SaveDiffIndex() error = %v", err)
	}

	violations, err := s.Violations(ctx, "verify1")
	if err != nil {
		t.Fatalf("Violations() error = %v", err)
	}
	if len(violations) != 1 || violations[0].Check != model.CheckSince {
		t.Errorf("Violations() = %+v", violations)
	}

	runs, err := s.ListRuns(ctx, "faker", KindVerify)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 || runs[0].Summary["failed"] != 1 || runs[0].Summary["callables"] != 2 {
		t.Errorf("ListRuns(verify) = %+v", runs)
	}

	all, err := s.ListRuns(ctx, "faker", "")
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListRuns(all) returned %d runs, want 2", len(all))
	}
}

// TestParseTimestamp tests the accepted formats.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"2026-01-02 03:04:05.000000000", "2026-01-02 03:04:05", "2026-01-02T03:04:05Z"} {
		if parseTimestamp(s).IsZero() {
			t.Errorf("parseTimestamp(%q) returned zero time", s)
		}
	}
	if !parseTimestamp("garbage").IsZero() {
		t.Error("parseTimestamp(garbage) should be zero")
	}
}
