package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nao1215/docproof/internal/database"
	"github.com/nao1215/docproof/internal/diff"
	"github.com/nao1215/docproof/internal/report"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [project]",
		Short: "Compare stored diff indexes of a project",
		Long: `Compare shows which pages and methods changed between two generate runs
stored in the baseline database.

By default the latest two runs of the project are compared. The project is
the name recorded by 'docproof generate' (the dump's name field, or its
file name).

Examples:
  # Compare the latest two runs
  docproof compare faker

  # List the stored runs of a project
  docproof compare --list faker

  # Compare a specific run with the latest one
  docproof compare --with-run-id cs1abc faker

  # Output the comparison as Markdown
  docproof compare --format markdown faker

  # List every project in the database
  docproof compare --list-projects`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("list", "l", false, "List stored runs for the project")
	cmd.Flags().BoolP("list-projects", "L", false, "List all projects in the database")
	cmd.Flags().StringP("with-run-id", "i", "",
		"Compare the latest run with this run (use --list to see run IDs)")
	cmd.Flags().StringP("format", "f", string(report.FormatText),
		"Output format: text, json or markdown")
	cmd.Flags().String("db-dir", "", "Baseline database directory (default: XDG data dir)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	listProjects, err := cmd.Flags().GetBool("list-projects")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var projectName string
	if !listProjects {
		if len(args) == 0 {
			return errors.New("project name is required (use --list-projects to see stored projects)")
		}
		projectName = args[0]
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	writer, err := report.NewWriter(report.Format(format), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if listProjects {
		return listStoredProjects(ctx, out, store)
	}

	listRuns, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listRuns {
		return listRunHistory(ctx, out, store, projectName)
	}

	withRunID, err := cmd.Flags().GetString("with-run-id")
	if err != nil {
		return err
	}
	result, err := compareRuns(ctx, store, projectName, withRunID)
	if err != nil {
		return err
	}
	_, err = writer.WriteComparison(result)
	return err
}

// listStoredProjects lists all projects that have runs in the database.
func listStoredProjects(ctx context.Context, out io.Writer, store *database.Store) error {
	projects, err := store.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects found in the database.")
		fmt.Fprintln(out, "\nUse 'docproof generate --project <dump>' to record a run.")
		return nil
	}

	fmt.Fprintf(out, "Projects (%d):\n\n", len(projects))
	for _, p := range projects {
		fmt.Fprintf(out, "  • %s\n", p)
	}
	fmt.Fprintln(out, "\nUse 'docproof compare --list <project>' to see the runs of a project.")
	return nil
}

// listRunHistory lists the generate and verify runs of a project.
func listRunHistory(ctx context.Context, out io.Writer, store *database.Store, projectName string) error {
	runs, err := store.ListRuns(ctx, projectName, "")
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintf(out, "No runs found for %s\n", projectName)
		return nil
	}

	fmt.Fprintf(out, "Run history for %s (%d runs):\n\n", projectName, len(runs))
	fmt.Fprintf(out, "  %-20s  %-8s  %-20s  %s\n", "ID", "Kind", "Date", "Summary")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 72))
	for _, r := range runs {
		fmt.Fprintf(out, "  %-20s  %-8s  %-20s  %s\n",
			r.ID,
			r.Kind,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			formatSummary(r.Summary),
		)
	}

	fmt.Fprintln(out, "\nUse 'docproof compare <project>' to compare the latest two generate runs.")
	fmt.Fprintln(out, "Use 'docproof compare --with-run-id <id> <project>' to compare with a specific run.")
	return nil
}

// formatSummary renders a run summary map as "key:value" pairs.
func formatSummary(summary map[string]int) string {
	if len(summary) == 0 {
		return "N/A"
	}
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ":" + humanize.Comma(int64(summary[k]))
	}
	return strings.Join(parts, " ")
}

// compareRuns diffs the latest generate run of projectName against the
// previous one, or against withRunID when set.
func compareRuns(ctx context.Context, store *database.Store, projectName, withRunID string) (*diff.Result, error) {
	latest, err := store.LatestDiffIndexes(ctx, projectName, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	if len(latest) == 0 {
		return nil, fmt.Errorf("no generate runs found for %s", projectName)
	}
	current := latest[0]

	var previous database.StoredIndex
	switch {
	case withRunID != "":
		stored, err := store.DiffIndexByRunID(ctx, withRunID)
		if err != nil {
			return nil, fmt.Errorf("failed to get run %s: %w", withRunID, err)
		}
		if stored.Project != projectName {
			return nil, fmt.Errorf("run %s belongs to %s, not %s", withRunID, stored.Project, projectName)
		}
		previous = *stored
	case len(latest) < 2:
		return nil, fmt.Errorf("at least 2 generate runs are required for comparison (found %d)", len(latest))
	default:
		previous = latest[1]
	}

	result := diff.Compare(previous.Index, current.Index)
	result.FromRun = previous.ID
	result.ToRun = current.ID
	return result, nil
}
