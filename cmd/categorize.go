package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/etezel/riskbalancer"
	"github.com/google/subcommands"
)

// categorizeCmd holds the flags for the 'categorize' subcommand.
type categorizeCmd struct {
	adapter   string
	statement string
	plan      string
	mappings  string
}

func (*categorizeCmd) Name() string     { return "categorize" }
func (*categorizeCmd) Synopsis() string { return "assign plan categories to unmapped instruments" }
func (*categorizeCmd) Usage() string {
	return `rb categorize -statement <csv> -plan <yaml> -mappings <yaml> [-adapter <name>]

  Parses a broker statement and prompts interactively for every instrument
  that has no entry in the mappings file yet. An instrument can be split over
  several categories with weights, and given a volatility override. The new
  entries are appended to the mappings file.

Usage Examples:
$ rb categorize -statement ajbell.csv -plan config/categories.yaml -mappings mappings/ajbell.yaml
`
}

func (c *categorizeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.adapter, "adapter", "ajbell", "Statement adapter to use.")
	f.StringVar(&c.statement, "statement", "", "Path to the broker CSV statement.")
	f.StringVar(&c.plan, "plan", "", "Path to the categories YAML.")
	f.StringVar(&c.mappings, "mappings", "", "Path to the YAML mappings file to read and update.")
}

func (c *categorizeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.statement == "" || c.plan == "" || c.mappings == "" {
		fmt.Fprintln(os.Stderr, "Error: -statement, -plan and -mappings are required")
		return subcommands.ExitUsageError
	}

	plan, err := LoadPlan(c.plan)
	if err != nil {
		return fail(err)
	}
	index := riskbalancer.NewPlanIndex(plan)

	mappings, err := riskbalancer.LoadMappings(c.mappings)
	if err != nil {
		return fail(err)
	}

	fx, err := LoadFX()
	if err != nil {
		return fail(err)
	}
	investments, err := parseStatement(c.adapter, c.statement, fx)
	if err != nil {
		return fail(err)
	}

	missing := missingMappings(investments, mappings)
	if len(missing) == 0 {
		fmt.Println("All instruments already have mappings. Nothing to do.")
		return subcommands.ExitSuccess
	}

	newEntries, err := gatherMissingMappings(os.Stdout, bufio.NewReader(os.Stdin), missing, index)
	if err != nil {
		return fail(err)
	}

	for instrument, mapping := range newEntries {
		mappings[instrument] = mapping
	}
	if err := riskbalancer.SaveMappings(c.mappings, mappings); err != nil {
		return fail(err)
	}
	fmt.Printf("Stored %d new mappings in %s\n", len(newEntries), c.mappings)
	return subcommands.ExitSuccess
}

// errCategorizeAborted is returned when the user quits the prompt loop.
var errCategorizeAborted = errors.New("categorization aborted at user request")

// gatherMissingMappings prompts for one mapping per missing instrument.
// It reads lines from r so tests can drive the dialogue.
func gatherMissingMappings(w io.Writer, r *bufio.Reader, missing []string, index *riskbalancer.PlanIndex) (riskbalancer.Mappings, error) {
	entries := riskbalancer.Mappings{}
	if len(missing) == 0 {
		return entries, nil
	}

	fmt.Fprintln(w, "Assign categories (supports multiple allocations) for the following instruments.")
	fmt.Fprintln(w, "Enter comma-separated category paths with optional weights (e.g., 'Equities / Developed / NAM=70, Equities / Developed / Europe=30').")
	fmt.Fprintln(w, "Type 'list' to view options or 'quit' to abort.")

	for _, instrument := range missing {
		allocations, err := promptAllocations(w, r, instrument, index)
		if err != nil {
			return nil, err
		}
		volatility, err := promptVolatility(w, r, instrument)
		if err != nil {
			return nil, err
		}
		entries[instrument] = riskbalancer.InstrumentMapping{
			Allocations: allocations,
			Volatility:  volatility,
		}
	}
	return entries, nil
}

func promptAllocations(w io.Writer, r *bufio.Reader, instrument string, index *riskbalancer.PlanIndex) ([]riskbalancer.CategoryAllocation, error) {
	for {
		fmt.Fprintf(w, "%s allocations: ", instrument)
		line, err := readLine(r)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(line) {
		case "quit", "exit":
			return nil, errCategorizeAborted
		case "list":
			for _, label := range index.Labels() {
				fmt.Fprintf(w, " - %s\n", label)
			}
			continue
		}
		allocations, err := riskbalancer.ParseAllocationInput(line, index)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		return allocations, nil
	}
}

// promptVolatility asks for an optional override, blank defers to the
// statement or the default.
func promptVolatility(w io.Writer, r *bufio.Reader, instrument string) (float64, error) {
	for {
		fmt.Fprintf(w, "%s custom volatility (blank to defer to statement/default): ", instrument)
		line, err := readLine(r)
		if err != nil {
			return 0, err
		}
		if line == "" {
			return 0, nil
		}
		value, err := strconv.ParseFloat(line, 64)
		if err != nil || value <= 0 {
			fmt.Fprintln(w, "Please enter a positive number for volatility or leave empty.")
			continue
		}
		return value, nil
	}
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
