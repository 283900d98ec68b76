package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etezel/riskbalancer/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI categorization assistant.
type assistCmd struct {
	plan string
}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "start an interactive session with the categorization assistant"
}
func (*assistCmd) Usage() string {
	return `rb assist -plan <yaml> [initial prompt]

  Starts an interactive session with a Gemini-backed assistant that proposes
  plan category allocations for instruments you describe. The answers are
  formatted as 'rb categorize' allocation input, ready to paste.

  Requires GEMINI_API_KEY in the environment.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.plan, "plan", "", "Path to the categories YAML the assistant allocates against.")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.plan == "" {
		fmt.Fprintln(os.Stderr, "Error: -plan is required")
		return subcommands.ExitUsageError
	}

	plan, err := LoadPlan(c.plan)
	if err != nil {
		return fail(err)
	}

	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	categorizer := agent.NewCategorizer(plan.Labels())
	a := agent.New(os.Stdout, os.Stdin, categorizer)

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
