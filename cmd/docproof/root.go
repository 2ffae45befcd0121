package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for docproof.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docproof",
		Short: "Documentation pipeline and example verifier for generator libraries",
		Long: `docproof builds API documentation pages from a reflected API dump and
verifies the documentation against the library itself.

generate writes the page, diff and search indexes consumed by the
documentation site. verify runs every example in a sandbox and checks
descriptions, @see references, @param tags, deprecations and @since.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .docproof.yaml in current or home directory)")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored log output")

	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewVerifyCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errVerificationFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
