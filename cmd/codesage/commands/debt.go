package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KuaaMU/codesage/pkg/analyzers/analyze"
	"github.com/KuaaMU/codesage/pkg/analyzers/metrics"
	"github.com/KuaaMU/codesage/pkg/config"
	"github.com/KuaaMU/codesage/pkg/report"
	"github.com/KuaaMU/codesage/pkg/runner"
)

// DebtOptions holds resolved debt command inputs.
type DebtOptions struct {
	Path       string
	ConfigPath string
	OutputHTML string
	Workers    int
}

type debtExecutor func(opts DebtOptions, stdout, stderr io.Writer) error

// DebtCommand holds flag state and dependencies for the debt command.
type DebtCommand struct {
	opts DebtOptions
	exec debtExecutor
}

// NewDebtCommand creates the debt command.
func NewDebtCommand() *cobra.Command {
	return newDebtCommandWithDeps(runDebt)
}

func newDebtCommandWithDeps(exec debtExecutor) *cobra.Command {
	dc := &DebtCommand{exec: exec}

	cmd := &cobra.Command{
		Use:   "debt <path>",
		Short: "Report technical debt across a directory tree",
		Long: `Estimate remediation minutes per file from complexity, duplication
and maintainability metrics, worst files first. With --output-html the
report is written as an HTML page with charts instead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			dc.opts.Path = args[0]

			return dc.exec(dc.opts, cobraCmd.OutOrStdout(), cobraCmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&dc.opts.ConfigPath, "config", "c", "", "Config file path")
	cmd.Flags().StringVar(&dc.opts.OutputHTML, "output-html", "", "Write an HTML debt report to this path")
	cmd.Flags().IntVarP(&dc.opts.Workers, "workers", "w", 0, "Parallel workers (0 = config default)")

	return cmd
}

func runDebt(opts DebtOptions, stdout, stderr io.Writer) error {
	logger := stderrLogger(stderr)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = cfg.Analysis.Workers
	}

	r := runner.New(
		analyze.NewRegistry(metrics.NewAnalyzer()),
		runner.WithLogger(logger),
		runner.WithWorkers(workers),
	)

	batch, err := r.ReviewTree(opts.Path, cfg.Analysis.Extensions)
	if err != nil {
		return err
	}

	if opts.OutputHTML != "" {
		return writeDebtHTMLFile(opts.OutputHTML, batch, stderr)
	}

	return report.WriteDebtTable(stdout, batch.Metrics)
}

func writeDebtHTMLFile(path string, batch *runner.Batch, stderr io.Writer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := report.WriteDebtHTML(f, batch.Metrics, batch.SeverityCounts()); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "debt report written to %s\n", path)

	return nil
}
