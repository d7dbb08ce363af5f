// Package commands implements CLI command handlers for codesage.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/KuaaMU/codesage/pkg/ai"
	"github.com/KuaaMU/codesage/pkg/analyzers/analyze"
	"github.com/KuaaMU/codesage/pkg/analyzers/metrics"
	"github.com/KuaaMU/codesage/pkg/config"
	"github.com/KuaaMU/codesage/pkg/lang"
	"github.com/KuaaMU/codesage/pkg/report"
	"github.com/KuaaMU/codesage/pkg/review"
	"github.com/KuaaMU/codesage/pkg/runner"
)

// ReviewOptions holds resolved review command inputs.
type ReviewOptions struct {
	Path       string
	Format     string
	ConfigPath string
	Workers    int
	UseAI      bool
	Verbose    bool
	NoColor    bool
}

type reviewExecutor func(opts ReviewOptions, stdout, stderr io.Writer) error

// ReviewCommand holds flag state and dependencies for the review command.
type ReviewCommand struct {
	opts ReviewOptions
	exec reviewExecutor
}

// NewReviewCommand creates the review command.
func NewReviewCommand() *cobra.Command {
	return newReviewCommandWithDeps(runReview)
}

func newReviewCommandWithDeps(exec reviewExecutor) *cobra.Command {
	rc := &ReviewCommand{exec: exec}

	cmd := &cobra.Command{
		Use:   "review <path>",
		Short: "Review a file or directory tree",
		Long: `Review source code for complexity, maintainability, duplication and
technical debt. A file argument reviews that file; a directory argument
reviews every supported source file under it concurrently.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			rc.opts.Path = args[0]

			return rc.exec(rc.opts, cobraCmd.OutOrStdout(), cobraCmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&rc.opts.Format, "format", "f", "", "Output format: text, json, sarif (default from config)")
	cmd.Flags().StringVarP(&rc.opts.ConfigPath, "config", "c", "", "Config file path")
	cmd.Flags().IntVarP(&rc.opts.Workers, "workers", "w", 0, "Parallel workers for directory review (0 = config default)")
	cmd.Flags().BoolVar(&rc.opts.UseAI, "ai", false, "Augment the review with AI findings (single file only)")
	cmd.Flags().BoolVarP(&rc.opts.Verbose, "verbose", "v", false, "Show per-file progress on stderr")
	cmd.Flags().BoolVar(&rc.opts.NoColor, "no-color", false, "Disable colored output")

	return cmd
}

func stderrLogger(stderr io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(stderr, nil))
}

// resolveFormat picks the flag value over the config value and normalizes it,
// warning on fallback instead of failing.
func resolveFormat(flagValue string, cfg *config.Config, logger *slog.Logger) string {
	requested := flagValue
	if requested == "" {
		requested = cfg.Output.Format
	}

	format, fallback := report.NormalizeFormat(requested)
	if fallback {
		logger.Warn("unknown output format, falling back to text", "requested", requested)
	}

	return format
}

func runReview(opts ReviewOptions, stdout, stderr io.Writer) error {
	logger := stderrLogger(stderr)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	format := resolveFormat(opts.Format, cfg, logger)

	if opts.NoColor || cfg.Output.NoColor {
		color.NoColor = true
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = cfg.Analysis.Workers
	}

	info, err := os.Stat(opts.Path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", opts.Path, err)
	}

	if info.IsDir() {
		return reviewTree(opts, cfg, format, workers, logger, stdout, stderr)
	}

	return reviewSingle(opts, cfg, format, logger, stdout)
}

func reviewSingle(
	opts ReviewOptions, cfg *config.Config, format string, logger *slog.Logger, stdout io.Writer,
) error {
	r := runner.New(analyze.NewRegistry(metrics.NewAnalyzer()), runner.WithLogger(logger))

	result, err := r.ReviewFile(opts.Path)
	if err != nil {
		return err
	}

	issues := result.Issues

	if opts.UseAI {
		aiIssues := runAIReview(opts.Path, cfg, logger)
		issues = append(issues, aiIssues...)
	}

	if err := report.WriteIssues(stdout, issues, format); err != nil {
		return err
	}

	if format == report.FormatText {
		m := result.Metrics
		_, err = fmt.Fprintf(stdout,
			"\nMetrics:\n  Lines of code: %d\n  Cyclomatic complexity: %d\n  Cognitive complexity: %d\n"+
				"  Maintainability index: %.1f\n  Duplication: %.1f%%\n  Technical debt: %d minute(s)\n",
			m.LinesOfCode, m.CyclomaticComplexity, m.CognitiveComplexity,
			m.MaintainabilityIndex, m.DuplicationPercentage, m.TechnicalDebtMinutes)
		if err != nil {
			return err
		}
	}

	return nil
}

// runAIReview degrades to an empty finding set when no credential is
// configured or the endpoint fails.
func runAIReview(path string, cfg *config.Config, logger *slog.Logger) []review.Issue {
	client, err := ai.NewClient(ai.Config{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
		Timeout: cfg.AI.Timeout,
	})
	if err != nil {
		if errors.Is(err, ai.ErrNoCredentials) {
			logger.Warn("ai review unavailable: no api key configured")
		} else {
			logger.Warn("ai review unavailable", "error", err)
		}

		return nil
	}

	rc, err := lang.LoadContext(path)
	if err != nil {
		logger.Warn("ai review skipped", "error", err)

		return nil
	}

	issues, err := client.Review(context.Background(), rc)
	if err != nil {
		logger.Warn("ai review failed, continuing without it", "error", err)

		return nil
	}

	return issues
}

func reviewTree(
	opts ReviewOptions, cfg *config.Config, format string, workers int,
	logger *slog.Logger, stdout, stderr io.Writer,
) error {
	if opts.UseAI {
		logger.Warn("ai review applies to single files only, skipping for directory review")
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithWorkers(workers),
	}

	if opts.Verbose {
		runnerOpts = append(runnerOpts, runner.WithProgress(func(done, total int, path string) {
			fmt.Fprintf(stderr, "progress: %d/%d %s\n", done, total, path)
		}))
	}

	r := runner.New(analyze.NewRegistry(metrics.NewAnalyzer()), runnerOpts...)

	batch, err := r.ReviewTree(opts.Path, cfg.Analysis.Extensions)
	if err != nil {
		return err
	}

	if err := report.WriteIssues(stdout, batch.Issues, format); err != nil {
		return err
	}

	if format == report.FormatText {
		summary := report.NewSummary(batch.FilesAnalyzed, batch.FilesSkipped, batch.SeverityCounts(), batch.Metrics)

		return report.WriteSummary(stdout, summary)
	}

	return nil
}
