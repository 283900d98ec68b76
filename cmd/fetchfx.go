package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etezel/riskbalancer"
	"github.com/google/subcommands"
)

// fetchFXCmd holds the flags for the 'fetch-fx' subcommand.
type fetchFXCmd struct {
	currencies string
}

func (*fetchFXCmd) Name() string     { return "fetch-fx" }
func (*fetchFXCmd) Synopsis() string { return "fetch FX rates and store them in the fx file" }
func (*fetchFXCmd) Usage() string {
	return `rb fetch-fx [-currencies USD,EUR]

  Fetches the GBP conversion rate for each currency from the public
  Frankfurter feed and writes the table to the fx file. Responses are cached
  on disk for the day.

Usage Examples:
$ rb fetch-fx -currencies USD,EUR,CHF
`
}

func (c *fetchFXCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currencies, "currencies", "USD", "Comma-separated currency codes to fetch.")
}

func (c *fetchFXCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var currencies []string
	for _, code := range strings.Split(c.currencies, ",") {
		if code = strings.TrimSpace(code); code != "" {
			currencies = append(currencies, strings.ToUpper(code))
		}
	}
	if len(currencies) == 0 {
		return fail(fmt.Errorf("no currencies given"))
	}

	rates, err := riskbalancer.FetchFXRates(riskbalancer.DailyCachedClient(), currencies...)
	if err != nil {
		return fail(err)
	}
	if err := riskbalancer.SaveFXRates(*fxFile, rates); err != nil {
		return fail(err)
	}
	for _, code := range currencies {
		fmt.Printf("1 %s = %.6f GBP\n", code, rates[code])
	}
	fmt.Printf("Saved %d rates to %s\n", len(rates), *fxFile)
	return subcommands.ExitSuccess
}
