// Package cmd implements the CLI application to balance a portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/etezel/riskbalancer"
	"github.com/etezel/riskbalancer/adapters"
	"github.com/google/subcommands"
)

// Commands lists every subcommand in registration order.
// A main package registers them on its commander and executes the selected one.
var Commands = []subcommands.Command{
	&categorizeCmd{},
	&buildCmd{},
	&reportCmd{},
	&listCmd{},
	&deleteCmd{},
	&addCmd{},
	&fetchFXCmd{},
	&assistCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioDir = flag.String("portfolio-dir", "portfolios", "Folder where named portfolio snapshots are stored")
var fxFile = flag.String("fx-file", "fx.yaml", "Path to the FX rates file (YAML)")

const (
	defaultLeafVolatility = 0.15
	defaultPlanTolerance  = 2e-2
)

// LoadPlan loads and flattens the plan YAML with the app defaults.
func LoadPlan(path string) (*riskbalancer.PortfolioPlan, error) {
	return riskbalancer.LoadPlan(path, riskbalancer.LoadPlanOptions{
		Tolerance:             defaultPlanTolerance,
		DefaultLeafVolatility: defaultLeafVolatility,
	})
}

// LoadFX loads the FX table from the app fx file. A missing file yields an
// empty table, so GBP-only statements keep working without one.
func LoadFX() (riskbalancer.FXRates, error) {
	rates, err := riskbalancer.LoadFXRates(*fxFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, fx file %q does not exist, only GBP statements can be parsed", *fxFile)
		return riskbalancer.FXRates{}, nil
	}
	return rates, err
}

// sourceSpec describes one statement source given on the command line.
type sourceSpec struct {
	adapter   string
	statement string
	mappings  string
}

// parseSourceSpec parses "adapter=...,statement=...,mappings=..." specs.
func parseSourceSpec(spec string) (sourceSpec, error) {
	parts := map[string]string{}
	for _, segment := range strings.Split(spec, ",") {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		key, value, found := strings.Cut(segment, "=")
		if !found {
			return sourceSpec{}, fmt.Errorf("invalid source specification segment %q", segment)
		}
		parts[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	s := sourceSpec{
		adapter:   parts["adapter"],
		statement: parts["statement"],
		mappings:  parts["mappings"],
	}
	if s.adapter == "" || s.statement == "" || s.mappings == "" {
		return sourceSpec{}, errors.New("source spec must include adapter=..., statement=..., mappings=...")
	}
	return s, nil
}

// parseStatement runs the named adapter over a statement file.
func parseStatement(adapterName, statementPath string, fx riskbalancer.FXRates) ([]riskbalancer.Investment, error) {
	adapter, err := adapters.New(adapterName, adapters.Options{FX: fx})
	if err != nil {
		return nil, err
	}
	return adapters.ParseFile(adapter, statementPath)
}

// missingMappings returns the sorted instrument ids with no mapping entry.
func missingMappings(investments []riskbalancer.Investment, mappings riskbalancer.Mappings) []string {
	seen := map[string]bool{}
	var missing []string
	for _, inv := range investments {
		if _, ok := mappings[inv.InstrumentID]; ok || seen[inv.InstrumentID] {
			continue
		}
		seen[inv.InstrumentID] = true
		missing = append(missing, inv.InstrumentID)
	}
	sort.Strings(missing)
	return missing
}

// gatherInvestments parses every source and combines the mapped investments.
// It fails on the first instrument with no mapping entry.
func gatherInvestments(specs []sourceSpec, fx riskbalancer.FXRates) ([]riskbalancer.Investment, error) {
	var combined []riskbalancer.Investment
	for _, spec := range specs {
		mappings, err := riskbalancer.LoadMappings(spec.mappings)
		if err != nil {
			return nil, err
		}
		base, err := parseStatement(spec.adapter, spec.statement, fx)
		if err != nil {
			return nil, err
		}
		if missing := missingMappings(base, mappings); len(missing) > 0 {
			return nil, fmt.Errorf("missing mappings for %s in %s, run 'rb categorize' first",
				strings.Join(missing, ", "), spec.statement)
		}
		mapped, err := riskbalancer.ApplyMappings(base, mappings)
		if err != nil {
			return nil, err
		}
		combined = append(combined, mapped...)
	}
	return combined, nil
}

// snapshotPath resolves a portfolio name or path against the app portfolio dir.
func snapshotPath(value string) (string, error) {
	return riskbalancer.ResolveSnapshotPath(*portfolioDir, value)
}

// fail prints the error and returns the failure exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
