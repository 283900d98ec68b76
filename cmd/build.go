package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etezel/riskbalancer"
	"github.com/google/subcommands"
)

// sourceFlags collects repeatable -source values.
type sourceFlags []string

func (s *sourceFlags) String() string { return strings.Join(*s, " ") }
func (s *sourceFlags) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// buildCmd holds the flags for the 'build' subcommand.
type buildCmd struct {
	plan      string
	portfolio string
	sources   sourceFlags
	overwrite bool
}

func (*buildCmd) Name() string     { return "build" }
func (*buildCmd) Synopsis() string { return "construct and persist a portfolio snapshot" }
func (*buildCmd) Usage() string {
	return `rb build -plan <yaml> -portfolio <name> -source adapter=...,statement=...,mappings=... [-overwrite]

  Parses one or more broker statements, applies the instrument mappings and
  stores the combined result as a snapshot. A bare portfolio name is stored
  under the portfolio dir as <name>.json. Every statement instrument must be
  mapped; run 'rb categorize' first.

Usage Examples:
$ rb build -plan config/categories.yaml -portfolio main \
    -source adapter=ajbell,statement=ajbell.csv,mappings=mappings/ajbell.yaml \
    -source adapter=ibkr,statement=ibkr.csv,mappings=mappings/ibkr.yaml
`
}

func (c *buildCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.plan, "plan", "", "Path to the categories YAML.")
	f.StringVar(&c.portfolio, "portfolio", "", "Portfolio name or file path.")
	f.Var(&c.sources, "source", "Statement source spec, repeatable: adapter=...,statement=...,mappings=...")
	f.BoolVar(&c.overwrite, "overwrite", false, "Overwrite an existing snapshot file.")
}

func (c *buildCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.plan == "" || c.portfolio == "" || len(c.sources) == 0 {
		fmt.Fprintln(os.Stderr, "Error: -plan, -portfolio and at least one -source are required")
		return subcommands.ExitUsageError
	}

	// Validate the plan up front, a snapshot pointing at a broken plan is useless.
	if _, err := LoadPlan(c.plan); err != nil {
		return fail(err)
	}

	var specs []sourceSpec
	for _, raw := range c.sources {
		spec, err := parseSourceSpec(raw)
		if err != nil {
			return fail(err)
		}
		specs = append(specs, spec)
	}

	fx, err := LoadFX()
	if err != nil {
		return fail(err)
	}
	investments, err := gatherInvestments(specs, fx)
	if err != nil {
		return fail(err)
	}

	path, err := snapshotPath(c.portfolio)
	if err != nil {
		return fail(err)
	}
	if _, err := os.Stat(path); err == nil && !c.overwrite {
		return fail(fmt.Errorf("%s already exists, use -overwrite to replace it", path))
	}
	if err := riskbalancer.SaveSnapshot(path, c.plan, investments); err != nil {
		return fail(err)
	}
	fmt.Printf("Saved portfolio with %d investments to %s\n", len(investments), path)
	return subcommands.ExitSuccess
}
