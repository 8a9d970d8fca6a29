// Package main provides the entry point for the brandscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for brandscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brandscan",
		Short: "Design fingerprinting for web pages",
		Long: `Brandscan extracts the design system of a web page: a ranked color
palette with assigned roles, a typography summary, a best-guess logo,
and a brand-voice profile derived from the page text.

Scans are stored locally so results can be compared over time and
served over a JSON API.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
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
