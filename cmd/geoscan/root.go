// Package main provides the entry point for the geoscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for geoscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geoscan",
		Short: "Machine-readability audit for web pages",
		Long: `geoscan audits web pages for machine readability and generative-engine
optimization. It fetches a page through a cascade of fetch strategies that
survive common anti-bot protections, extracts schema.org entities, media,
FAQ content and metadata, and produces a 0-100 score with prioritized
recommendations.

When a page cannot be fetched by any strategy, paste its markup with
--markup-file to audit it anyway.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
