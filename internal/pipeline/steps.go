package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/docproof/internal/database"
	"github.com/nao1215/docproof/internal/diff"
	"github.com/nao1215/docproof/internal/index"
	"github.com/nao1215/docproof/internal/model"
	"github.com/nao1215/docproof/internal/page"
	"github.com/nao1215/docproof/internal/project"
)

// Step names.
const (
	StepLoad            = "load_project"
	StepPages           = "build_pages"
	StepIndex           = "write_indexes"
	StepCompareBaseline = "compare_baseline"
	StepSaveBaseline    = "save_baseline"
)

// ErrNoProject is returned by steps that run before the project is loaded.
var ErrNoProject = errors.New("project not loaded")

// BaselineStore is the part of the run history the baseline steps use.
type BaselineStore interface {
	LatestDiffIndexes(ctx context.Context, project string, n int) ([]database.StoredIndex, error)
	SaveDiffIndex(ctx context.Context, project, runID string, ts time.Time, idx model.DiffIndex) error
}

// LoadStep reads the project dump.
type LoadStep struct {
	loader project.Loader
}

// NewLoadStep creates a LoadStep.
func NewLoadStep(loader project.Loader) *LoadStep {
	return &LoadStep{loader: loader}
}

// Name returns the step name.
func (s *LoadStep) Name() string { return StepLoad }

// Do loads build.ProjectFile into build.Project.
func (s *LoadStep) Do(ctx context.Context, build *Build) error {
	p, err := s.loader.Load(ctx, build.ProjectFile)
	if err != nil {
		return err
	}
	build.Project = p
	return nil
}

// PagesStep turns the project into pages.
type PagesStep struct {
	processor *page.Processor
}

// NewPagesStep creates a PagesStep.
func NewPagesStep(processor *page.Processor) *PagesStep {
	return &PagesStep{processor: processor}
}

// Name returns the step name.
func (s *PagesStep) Name() string { return StepPages }

// Do fills build.Pages and build.DiffIndex.
func (s *PagesStep) Do(ctx context.Context, build *Build) error {
	if build.Project == nil {
		return ErrNoProject
	}
	pages, err := s.processor.Process(ctx, build.Project)
	if err != nil {
		return err
	}
	idx, err := index.BuildDiffIndex(pages)
	if err != nil {
		return err
	}
	build.Pages = pages
	build.DiffIndex = idx
	return nil
}

// IndexStep writes the artifacts consumed by the documentation site.
type IndexStep struct {
	writer    *index.Writer
	processor *page.Processor
}

// NewIndexStep creates an IndexStep. The processor supplies the source
// base URL marker.
func NewIndexStep(writer *index.Writer, processor *page.Processor) *IndexStep {
	return &IndexStep{writer: writer, processor: processor}
}

// Name returns the step name.
func (s *IndexStep) Name() string { return StepIndex }

// Do writes every artifact and records their paths.
func (s *IndexStep) Do(_ context.Context, build *Build) error {
	if build.Project == nil {
		return ErrNoProject
	}
	artifacts, err := s.writer.Write(build.Pages, s.processor.SourceBaseURL(build.Project))
	if err != nil {
		return err
	}
	build.Artifacts = artifacts
	return nil
}

// CompareBaselineStep diffs the new index against the latest stored one.
type CompareBaselineStep struct {
	store  BaselineStore
	logger *slog.Logger
}

// NewCompareBaselineStep creates a CompareBaselineStep.
func NewCompareBaselineStep(store BaselineStore, logger *slog.Logger) *CompareBaselineStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompareBaselineStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *CompareBaselineStep) Name() string { return StepCompareBaseline }

// Do sets build.Comparison. A project without history leaves it nil.
func (s *CompareBaselineStep) Do(ctx context.Context, build *Build) error {
	if build.Project == nil {
		return ErrNoProject
	}
	stored, err := s.store.LatestDiffIndexes(ctx, build.ProjectName(), 1)
	if err != nil {
		return fmt.Errorf("failed to read baseline: %w", err)
	}
	if len(stored) == 0 {
		s.logger.Info("no baseline found", "project", build.ProjectName())
		return nil
	}

	result := diff.Compare(stored[0].Index, build.DiffIndex)
	result.FromRun = stored[0].ID
	result.ToRun = build.RunID
	build.BaselineRunID = stored[0].ID
	build.Comparison = result

	s.logger.Info("compared with baseline",
		"baseline", stored[0].ID,
		"changes", len(result.Changes),
		"unchanged_pages", result.UnchangedPages,
	)
	return nil
}

// SaveBaselineStep records the new index as the latest baseline.
type SaveBaselineStep struct {
	store BaselineStore
}

// NewSaveBaselineStep creates a SaveBaselineStep.
func NewSaveBaselineStep(store BaselineStore) *SaveBaselineStep {
	return &SaveBaselineStep{store: store}
}

// Name returns the step name.
func (s *SaveBaselineStep) Name() string { return StepSaveBaseline }

// Do stores build.DiffIndex under build.RunID.
func (s *SaveBaselineStep) Do(ctx context.Context, build *Build) error {
	if build.Project == nil {
		return ErrNoProject
	}
	return s.store.SaveDiffIndex(ctx, build.ProjectName(), build.RunID, build.StartedAt, build.DiffIndex)
}
