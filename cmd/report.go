package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etezel/riskbalancer"
	"github.com/etezel/riskbalancer/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	portfolio string
	plan      string
	export    string
	status    bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "analyze a stored portfolio snapshot" }
func (*reportCmd) Usage() string {
	return `rb report -portfolio <name> [-plan <yaml>] [-export <csv>] [-status]

  Loads a stored snapshot and renders the allocation summary: risk weights,
  inverse-volatility cash weights and the gap between actual and target
  values per category. The plan defaults to the one recorded in the snapshot.

Usage Examples:
$ rb report -portfolio main
$ rb report -portfolio main -status -export summary.csv
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "portfolio", "", "Portfolio name or file path.")
	f.StringVar(&c.plan, "plan", "", "Plan path override. Defaults to the plan stored with the snapshot.")
	f.StringVar(&c.export, "export", "", "Optional CSV path to export the summary rows.")
	f.BoolVar(&c.status, "status", false, "Also render the per-category status table.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		fmt.Fprintln(os.Stderr, "Error: -portfolio is required")
		return subcommands.ExitUsageError
	}

	path, err := snapshotPath(c.portfolio)
	if err != nil {
		return fail(err)
	}
	snapshot, err := riskbalancer.LoadSnapshot(path)
	if err != nil {
		return fail(err)
	}

	planPath := c.plan
	if planPath == "" {
		planPath = snapshot.Plan
	}
	plan, err := LoadPlan(planPath)
	if err != nil {
		return fail(err)
	}

	portfolio := riskbalancer.NewPortfolio()
	if err := portfolio.Extend(snapshot.Investments); err != nil {
		return fail(fmt.Errorf("snapshot %q: %w", path, err))
	}

	analyzer := riskbalancer.NewPortfolioAnalyzer(plan, portfolio)
	summary, err := analyzer.Summarize()
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Loaded %d investments from %s\n", portfolio.Len(), path)
	printMarkdown(renderer.SummaryMarkdown(summary))

	if c.status {
		statuses, err := analyzer.CategoryStatuses()
		if err != nil {
			return fail(err)
		}
		printMarkdown(renderer.StatusMarkdown(statuses))
	}

	if c.export != "" {
		if err := exportSummaryCSV(c.export, summary); err != nil {
			return fail(err)
		}
		fmt.Printf("Wrote summary to %s\n", c.export)
	}
	return subcommands.ExitSuccess
}

func exportSummaryCSV(path string, summary *riskbalancer.Summary) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create export directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create export file %q: %w", path, err)
	}
	defer f.Close()
	return renderer.SummaryCSV(f, summary)
}
