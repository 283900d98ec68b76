package adapters

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/etezel/riskbalancer"
)

// MS401K parses Morgan Stanley 401(k) statements. Balances are USD and
// converted with the supplied FX rates.
type MS401K struct {
	opts Options
}

func NewMS401K(opts Options) *MS401K {
	return &MS401K{opts: opts.defaults()}
}

func (a *MS401K) Name() string { return "MS 401k CSV" }

func (a *MS401K) Parse(r io.Reader) ([]riskbalancer.Investment, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read MS 401k header: %w", err)
	}
	cols := headerIndex(header)

	var investments []riskbalancer.Investment
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read MS 401k row: %w", err)
		}
		if field(cols, record, "Plan") == "" {
			continue
		}
		description := field(cols, record, "Fund Name")
		if description == "" {
			continue
		}
		closingBalance, err := parseOptionalMoney(field(cols, record, "Closing Balance"))
		if err != nil {
			return nil, fmt.Errorf("MS 401k row for %q: %w", description, err)
		}
		gbpValue, err := a.opts.FX.Convert("USD", closingBalance)
		if err != nil {
			return nil, fmt.Errorf("MS 401k row for %q: %w", description, err)
		}
		instrumentID := strings.ReplaceAll(description, " ", "_")
		inv, err := riskbalancer.NewInvestment(instrumentID, description, gbpValue, a.opts.DefaultCategory, a.opts.DefaultVolatility, "ms401k")
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, nil
}
