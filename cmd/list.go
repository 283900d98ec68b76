package cmd

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/etezel/riskbalancer"
	"github.com/google/subcommands"
)

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list stored portfolio snapshots" }
func (*listCmd) Usage() string {
	return `rb list

  Lists the snapshots stored in the portfolio dir with their plan and
  creation date.
`
}

func (*listCmd) SetFlags(f *flag.FlagSet) {}

func (c *listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	files, err := filepath.Glob(filepath.Join(*portfolioDir, "*.json"))
	if err != nil {
		return fail(err)
	}
	if len(files) == 0 {
		fmt.Println("No stored portfolios.")
		return subcommands.ExitSuccess
	}
	sort.Strings(files)
	for _, file := range files {
		snapshot, err := riskbalancer.LoadSnapshot(file)
		if err != nil {
			fmt.Printf("%-25s (unreadable: %v)\n", filepath.Base(file), err)
			continue
		}
		fmt.Printf("%-25s plan=%s created=%s\n",
			filepath.Base(file), snapshot.Plan, snapshot.CreatedAt.Format("2006-01-02 15:04"))
	}
	return subcommands.ExitSuccess
}
