package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/docproof/internal/config"
	"github.com/nao1215/docproof/internal/example"
	"github.com/nao1215/docproof/internal/harness"
	"github.com/nao1215/docproof/internal/project"
	"github.com/nao1215/docproof/internal/reference"
	"github.com/nao1215/docproof/internal/report"
)

// errVerificationFailed is returned when the report has violations. The
// report itself already explains them, so Execute prints nothing more.
var errVerificationFailed = errors.New("verification failed")

// NewVerifyCmd creates the verify command.
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify documentation against the library",
		Long: `Verify checks every documented module method:
- description: every link in it points at a known page
- example: at least one @example exists and every one runs without
  error in a sandbox
- deprecated: with console.warn captured, running the examples of a
  @deprecated method emits a warning and exits cleanly, and running
  those of any other method emits none
- param: every parameter has a description that links only to
  known pages
- see: every @see names a known method or page
- since: @since is present and a MAJOR.MINOR.PATCH version

Examples are executed with the configured runner (default: npx tsx {file}).
The command exits non-zero when any check fails.

Examples:
  # Verify with the defaults
  docproof verify --project api.json

  # Markdown report for a pull request comment
  docproof verify --project api.json --format markdown --report verify.md

  # Fewer workers and a longer timeout on slow CI machines
  docproof verify --project api.json -j 2 --timeout 2m`,
		Args: cobra.NoArgs,
		RunE: runVerifyCmd,
	}

	addProjectFlags(cmd)
	cmd.Flags().StringP("format", "f", string(report.FormatText),
		"Report format: text, json or markdown")
	cmd.Flags().StringP("report", "r", "",
		"Write the report to this file instead of stdout")
	cmd.Flags().IntP("concurrency", "j", config.DefaultConcurrency,
		"Number of callables verified in parallel")
	cmd.Flags().DurationP("timeout", "t", config.DefaultExecTimeout,
		"Timeout for a single example execution")
	cmd.Flags().Bool("show-passed", false, "List passing callables in the text report")

	return cmd
}

// runVerifyCmd executes the verify command.
func runVerifyCmd(cmd *cobra.Command, _ []string) error {
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
	if _, err := report.NewWriter(report.Format(format), io.Discard); err != nil {
		return err
	}
	reportPath, err := cmd.Flags().GetString("report")
	if err != nil {
		return err
	}
	showPassed, err := cmd.Flags().GetBool("show-passed")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg)
	ctx, cancel := signalContext(logger)
	defer cancel()

	p, err := project.NewFileLoader().Load(ctx, cfg.ProjectFile)
	if err != nil {
		return err
	}

	_, analyzer, _, err := newProcessor(cfg, logger)
	if err != nil {
		return err
	}
	materializer, err := example.New(
		example.WithRootIdentifier(cfg.RootIdentifier),
		example.WithEntryModule(cfg.EntryModule),
		example.WithImportTemplate(cfg.ImportTemplate),
		example.WithWarningMarker(cfg.WarningPrefix),
		example.WithWarningCapture(cfg.WarningCapture),
	)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	runner, err := harness.NewCommandRunner(cfg.RunnerCommand,
		harness.WithEnv(cfg.RunnerEnv),
		harness.WithIsolatedEnv(cfg.IsolatedEnv),
		harness.WithTimeout(cfg.ExecTimeout),
		harness.WithWarningPrefix(cfg.WarningPrefix),
		harness.WithRunnerLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	h := harness.New(runner, materializer, analyzer,
		harness.WithLogger(logger),
		harness.WithConcurrency(cfg.Concurrency),
		harness.WithExtension(cfg.Extension),
		harness.WithSandboxParent(cfg.SandboxDir),
		harness.WithCallPrefix(cfg.CallPrefix),
		harness.WithAPIRoot(cfg.APIRoot),
		harness.WithValidatorOptions(reference.WithDocsURL(cfg.DocsBaseURL)),
	)

	result, err := h.Run(ctx, p)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(cmd, reportPath)
	if err != nil {
		return err
	}
	defer closeOut() //nolint:errcheck // report errors surface from the write below

	var writer report.Writer
	if report.Format(format) == report.FormatText {
		writer = report.NewSimpleWriter(out, report.WithShowPassed(showPassed))
	} else if writer, err = report.NewWriter(report.Format(format), out); err != nil {
		return err
	}
	if _, err := writer.WriteVerification(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.SaveBaseline && cfg.DBDir != "" {
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveVerification(ctx, result); err != nil {
			logger.Error("failed to save verification run", "run_id", result.RunID, "error", err)
		}
	}

	if len(result.Violations()) > 0 {
		logger.Debug("verification failed", "error", result.Err())
		return errVerificationFailed
	}
	return nil
}
