// The rb command balances a portfolio of broker statements against a risk
// parity allocation plan.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etezel/riskbalancer/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion registers shell completion and exits when invoked by the shell.
func completion() {
	yamlFiles := predict.Files("*.yaml")
	csvFiles := predict.Files("*.csv")
	adapters := predict.Set{"ajbell", "ibkr", "schwab", "citi", "ms401k"}

	rb := &complete.Command{
		Flags: map[string]complete.Predictor{
			"portfolio-dir": predict.Dirs("*"),
			"fx-file":       yamlFiles,
		},
		Sub: map[string]*complete.Command{
			"categorize": {Flags: map[string]complete.Predictor{
				"adapter":   adapters,
				"statement": csvFiles,
				"plan":      yamlFiles,
				"mappings":  yamlFiles,
			}},
			"build": {Flags: map[string]complete.Predictor{
				"plan":      yamlFiles,
				"portfolio": predict.Something,
				"source":    predict.Something,
				"overwrite": predict.Nothing,
			}},
			"report": {Flags: map[string]complete.Predictor{
				"portfolio": predict.Something,
				"plan":      yamlFiles,
				"export":    csvFiles,
				"status":    predict.Nothing,
			}},
			"list":   {},
			"delete": {Flags: map[string]complete.Predictor{"portfolio": predict.Something}},
			"add": {Flags: map[string]complete.Predictor{
				"portfolio":     predict.Something,
				"instrument-id": predict.Something,
				"description":   predict.Something,
				"market-value":  predict.Something,
				"category":      predict.Something,
				"volatility":    predict.Something,
			}},
			"fetch-fx": {Flags: map[string]complete.Predictor{"currencies": predict.Something}},
			"assist":   {Flags: map[string]complete.Predictor{"plan": yamlFiles}},
			"topic": {
				Flags: map[string]complete.Predictor{"list": predict.Nothing},
				Args:  predict.Set{"readme", "plan", "risk-parity", "adapters", "mappings", "snapshots"},
			},
		},
	}
	rb.Complete("rb")
}
