package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/xid"
	"github.com/spf13/cobra"

	"github.com/nao1215/docproof/internal/config"
	"github.com/nao1215/docproof/internal/index"
	"github.com/nao1215/docproof/internal/pipeline"
	"github.com/nao1215/docproof/internal/project"
	"github.com/nao1215/docproof/internal/report"
	"github.com/nao1215/docproof/internal/watch"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build API pages and index artifacts from a project dump",
		Long: `Generate loads the reflected API dump and writes, into the output directory:
- api-pages.json: page titles, links and categories in navigation order
- api-diff-index.json: per page and per method content hashes
- api-search-index.json: keyword records for the site search
- source-base-url.txt: the repository blob URL used for source links
- api/<module>.html: one page per class, module, Randomizer and utilities

The diff index is compared with the previous run of the same project and
stored as the new baseline.

Examples:
  # Generate into docs/public
  docproof generate --project api.json

  # Print the baseline comparison as Markdown
  docproof generate --project api.json --format markdown

  # Rebuild whenever the dump changes
  docproof generate --project api.json --watch`,
		Args: cobra.NoArgs,
		RunE: runGenerateCmd,
	}

	addProjectFlags(cmd)
	cmd.Flags().StringP("format", "f", string(report.FormatText),
		"Comparison output format: text, json or markdown")
	cmd.Flags().BoolP("watch", "w", false, "Regenerate when the project file changes")
	cmd.Flags().Bool("pretty", false, "Indent the JSON index files")

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	writer, err := report.NewWriter(report.Format(format), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	watchMode, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return err
	}
	pretty, err := cmd.Flags().GetBool("pretty")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg)
	ctx, cancel := signalContext(logger)
	defer cancel()

	run := func(ctx context.Context) error {
		return generate(ctx, cfg, pretty, cmd.OutOrStdout(), writer, logger)
	}

	if err := run(ctx); err != nil {
		if !watchMode {
			return err
		}
		logger.Error("generate failed", "error", err)
	}
	if !watchMode {
		return nil
	}
	return watch.File(ctx, cfg.ProjectFile, run, watch.WithLogger(logger))
}

// generate runs the generate pipeline once.
func generate(ctx context.Context, cfg *config.Config, pretty bool, out io.Writer, writer report.Writer, logger *slog.Logger) error {
	processor, _, _, err := newProcessor(cfg, logger)
	if err != nil {
		return err
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewLoadStep(project.NewFileLoader()),
		pipeline.NewPagesStep(processor),
		pipeline.NewIndexStep(index.NewWriter(cfg.OutputDir,
			index.WithPrettyPrint(pretty),
			index.WithLogger(logger),
		), processor),
	)

	if cfg.SaveBaseline && cfg.DBDir != "" {
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		p.AddSteps(
			pipeline.NewCompareBaselineStep(store, logger),
			pipeline.NewSaveBaselineStep(store),
		)
	}

	start := time.Now()
	build := pipeline.NewBuild(xid.New().String(), cfg.ProjectFile, start)
	if err := p.Execute(ctx, build); err != nil {
		return err
	}

	fmt.Fprintf(out, "Generated %s pages for %s (%s callables) in %s\n",
		humanize.Comma(int64(len(build.Pages))),
		build.ProjectName(),
		humanize.Comma(int64(build.Project.CallableCount())),
		time.Since(start).Round(time.Millisecond),
	)
	fmt.Fprintf(out, "Artifacts written to %s\n", cfg.OutputDir)

	if build.Comparison != nil {
		if _, err := writer.WriteComparison(build.Comparison); err != nil {
			return fmt.Errorf("failed to write comparison: %w", err)
		}
	}
	return nil
}
