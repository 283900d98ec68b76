package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etezel/riskbalancer"
	"github.com/google/subcommands"
)

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	portfolio    string
	instrumentID string
	description  string
	marketValue  float64
	category     string
	volatility   float64
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "manually append an instrument to a snapshot" }
func (*addCmd) Usage() string {
	return `rb add -portfolio <name> -instrument-id <id> -description <text> -market-value <gbp> -category <label>

  Appends a manual position, typically cash or an asset held outside any
  broker, to a stored snapshot.

Usage Examples:
$ rb add -portfolio main -instrument-id CASH_ISA -description "Cash ISA" -market-value 12000 -category "Cash / GBP"
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "portfolio", "", "Portfolio name or file path.")
	f.StringVar(&c.instrumentID, "instrument-id", "", "Identifier for the manual position.")
	f.StringVar(&c.description, "description", "", "Human readable description.")
	f.Float64Var(&c.marketValue, "market-value", 0, "Market value in GBP.")
	f.StringVar(&c.category, "category", "", "Category path, e.g. 'Equities / Developed / NAM'.")
	f.Float64Var(&c.volatility, "volatility", defaultLeafVolatility, "Annualized volatility of the position.")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" || c.instrumentID == "" || c.category == "" {
		fmt.Fprintln(os.Stderr, "Error: -portfolio, -instrument-id and -category are required")
		return subcommands.ExitUsageError
	}

	category, err := riskbalancer.ParseCategoryLabel(c.category)
	if err != nil {
		return fail(err)
	}
	inv, err := riskbalancer.NewInvestment(c.instrumentID, c.description, c.marketValue, category, c.volatility, "manual")
	if err != nil {
		return fail(err)
	}

	path, err := snapshotPath(c.portfolio)
	if err != nil {
		return fail(err)
	}
	if err := riskbalancer.AppendManualInvestment(path, inv); err != nil {
		return fail(err)
	}
	fmt.Printf("Added %s to %s\n", c.instrumentID, path)
	return subcommands.ExitSuccess
}
