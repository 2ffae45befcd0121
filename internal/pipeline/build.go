package pipeline

import (
	"time"

	"github.com/nao1215/docproof/internal/diff"
	"github.com/nao1215/docproof/internal/index"
	"github.com/nao1215/docproof/internal/model"
)

// Build is the state threaded through one generate run.
type Build struct {
	// RunID identifies the run in the baseline database.
	RunID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// ProjectFile is the dump the project is loaded from.
	ProjectFile string

	Project   *model.Project
	Pages     []*model.Page
	DiffIndex model.DiffIndex
	Artifacts *index.Artifacts

	// BaselineRunID is the run the comparison was made against, if any.
	BaselineRunID string

	// Comparison is nil when no baseline existed.
	Comparison *diff.Result

	// Err is the error of the failed step, if any.
	Err error

	// PerformedSteps lists the steps that completed, in order.
	PerformedSteps []string
}

// NewBuild creates the state for a run over projectFile.
func NewBuild(runID, projectFile string, startedAt time.Time) *Build {
	return &Build{
		RunID:       runID,
		ProjectFile: projectFile,
		StartedAt:   startedAt,
	}
}

// ProjectName returns the loaded project's name, or "" before loading.
func (b *Build) ProjectName() string {
	if b.Project == nil {
		return ""
	}
	return b.Project.Name
}
