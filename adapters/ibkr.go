package adapters

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/etezel/riskbalancer"
)

// IBKR parses Interactive Brokers MTM CSV exports. The export interleaves
// several report sections; only the "Positions and Mark-to-Market Profit and
// Loss" summary rows matter here. Positions can be denominated in any
// currency, so FX rates are required for anything that is not GBP.
type IBKR struct {
	opts Options
}

func NewIBKR(opts Options) *IBKR {
	return &IBKR{opts: opts.defaults()}
}

func (a *IBKR) Name() string { return "Interactive Brokers CSV" }

const ibkrPositionsSection = "Positions and Mark-to-Market Profit and Loss"

func (a *IBKR) Parse(r io.Reader) ([]riskbalancer.Investment, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var investments []riskbalancer.Investment
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read IBKR row: %w", err)
		}
		if len(row) < 2 || row[0] != ibkrPositionsSection || row[1] != "Data" {
			continue
		}
		inv, ok, err := a.rowToInvestment(row)
		if err != nil {
			return nil, err
		}
		if ok {
			investments = append(investments, inv)
		}
	}
	return investments, nil
}

func (a *IBKR) rowToInvestment(row []string) (riskbalancer.Investment, bool, error) {
	if len(row) < 18 {
		return riskbalancer.Investment{}, false, nil
	}
	// Fixed columns of the MTM section: discriminator, asset class, currency,
	// symbol, description, then the value columns.
	discriminator := row[2]
	currency := strings.TrimSpace(row[4])
	symbol := strings.TrimSpace(row[5])
	description := strings.TrimSpace(row[6])
	if symbol == "" || description == "" || discriminator != "Summary" {
		return riskbalancer.Investment{}, false, nil
	}
	marketValue, err := parseMoney(row[12])
	if err != nil {
		return riskbalancer.Investment{}, false, fmt.Errorf("IBKR row for %q: %w", symbol, err)
	}
	gbpValue, err := a.opts.FX.Convert(currency, marketValue)
	if err != nil {
		return riskbalancer.Investment{}, false, fmt.Errorf("IBKR row for %q: %w", symbol, err)
	}
	inv, err := riskbalancer.NewInvestment(symbol, description, gbpValue, a.opts.DefaultCategory, a.opts.DefaultVolatility, "ibkr")
	if err != nil {
		return riskbalancer.Investment{}, false, err
	}
	return inv, true, nil
}
