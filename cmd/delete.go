package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type deleteCmd struct {
	portfolio string
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a stored portfolio snapshot" }
func (*deleteCmd) Usage() string {
	return `rb delete -portfolio <name>

  Deletes a stored snapshot file.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "portfolio", "", "Portfolio name or file path to delete.")
}

func (c *deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		fmt.Fprintln(os.Stderr, "Error: -portfolio is required")
		return subcommands.ExitUsageError
	}
	path, err := snapshotPath(c.portfolio)
	if err != nil {
		return fail(err)
	}
	if err := os.Remove(path); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted %s\n", path)
	return subcommands.ExitSuccess
}
