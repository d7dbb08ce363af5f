// Package main provides the entry point for the codesage CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/KuaaMU/codesage/cmd/codesage/commands"
	"github.com/KuaaMU/codesage/pkg/version"
)

func main() {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "codesage",
		Short: "CodeSage - AI-powered code review tool",
		Long: `CodeSage reviews source code for complexity, maintainability,
duplication and technical debt, with optional AI-assisted findings.

Commands:
  review    Review a file or directory tree
  debt      Report technical debt across a directory tree
  config    Print the effective configuration
  mcp       Start an MCP server for AI agent integration`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(commands.NewReviewCommand())
	rootCmd.AddCommand(commands.NewDebtCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "codesage %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
