package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/docproof/internal/config"
	"github.com/nao1215/docproof/internal/database"
	dplog "github.com/nao1215/docproof/internal/log"
	"github.com/nao1215/docproof/internal/page"
	"github.com/nao1215/docproof/internal/render"
	"github.com/nao1215/docproof/internal/signature"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the config path from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	if path, err := cmd.Flags().GetString("config"); err == nil {
		return path
	}
	if path, err := cmd.Root().PersistentFlags().GetString("config"); err == nil {
		return path
	}
	return ""
}

// useColor reports whether log output should be colored.
func useColor(cmd *cobra.Command) bool {
	if noColor, err := cmd.Flags().GetBool("no-color"); err == nil && noColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fi, err := os.Stderr.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// setupLogger creates the process logger and installs it as default.
func setupLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	logger := dplog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, useColor(cmd))
	slog.SetDefault(logger)
	return logger
}

// loadConfig builds the Config from defaults, the config file and the
// flags the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(getConfigFlag(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.Verbose = getVerboseFlag(cmd)

	flags := cmd.Flags()
	stringFlags := map[string]*string{
		"project":  &cfg.ProjectFile,
		"output":   &cfg.OutputDir,
		"docs-url": &cfg.DocsBaseURL,
		"db-dir":   &cfg.DBDir,
	}
	for name, dst := range stringFlags {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			if *dst, err = flags.GetString(name); err != nil {
				return nil, err
			}
		}
	}
	if flags.Lookup("concurrency") != nil && flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if flags.Lookup("timeout") != nil && flags.Changed("timeout") {
		if cfg.ExecTimeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Lookup("no-save") != nil && flags.Changed("no-save") {
		noSave, err := flags.GetBool("no-save")
		if err != nil {
			return nil, err
		}
		cfg.SaveBaseline = !noSave
	}
	return cfg, nil
}

// addProjectFlags registers the flags shared by generate and verify.
func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("project", "p", "", "Reflected API dump (JSON or YAML)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir, "Artifact output directory")
	cmd.Flags().String("docs-url", "", "Public origin of the documentation site")
	cmd.Flags().String("db-dir", "", "Baseline database directory (default: XDG data dir)")
	cmd.Flags().Bool("no-save", false, "Do not record this run in the baseline database")
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// newProcessor wires the rendering stack shared by generate and verify.
func newProcessor(cfg *config.Config, logger *slog.Logger) (*page.Processor, *signature.Analyzer, *render.Markdown, error) {
	renderer, err := render.NewMarkdown()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	analyzer := signature.NewAnalyzer(renderer, signature.WithCallPrefix(cfg.CallPrefix))
	processor := page.NewProcessor(analyzer, renderer,
		page.WithLogger(logger),
		page.WithAPIRoot(cfg.APIRoot),
		page.WithCallPrefix(cfg.CallPrefix),
	)
	return processor, analyzer, renderer, nil
}

// openStore opens the baseline database in cfg.DBDir.
func openStore(cfg *config.Config) (*database.Store, error) {
	store, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// openOutput returns stdout, or the file at path with its parent
// directories created.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // user-selected report path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
