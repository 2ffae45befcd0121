package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/docproof/internal/config"
	"github.com/nao1215/docproof/internal/render"
	"github.com/nao1215/docproof/internal/server"
)

// shutdownTimeout bounds graceful shutdown of the preview server.
const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview generated artifacts over HTTP",
		Long: `Serve exposes the output directory of 'docproof generate':
- /api/<module>.html renders the page markdown to HTML
- /search?q=<terms> queries the search index
- every other path serves the artifact files as they are

Examples:
  # Serve docs/public on the default address
  docproof serve

  # Serve another directory on all interfaces
  docproof serve --output site --addr :8080`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultOutputDir, "Artifact directory to serve")
	cmd.Flags().StringP("addr", "a", config.DefaultServeAddr, "Listen address")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.OutputDir == "" {
		return fmt.Errorf("configuration error: %w", config.ErrNoOutputDir)
	}
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg)
	ctx, cancel := signalContext(logger)
	defer cancel()

	renderer, err := render.NewMarkdown()
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(cfg.OutputDir, renderer, server.WithLogger(logger), server.WithAPIRoot(cfg.APIRoot)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", cfg.OutputDir, addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
