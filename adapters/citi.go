package adapters

import (
	"fmt"
	"io"
	"strings"

	"github.com/etezel/riskbalancer"
)

// Citi parses Citibank holdings exports (USD, converted to GBP). The header
// row is the one whose first column starts with "Security ID".
type Citi struct {
	opts Options
}

func NewCiti(opts Options) *Citi {
	return &Citi{opts: opts.defaults()}
}

func (a *Citi) Name() string { return "Citi CSV" }

func (a *Citi) Parse(r io.Reader) ([]riskbalancer.Investment, error) {
	rows, err := readAllRows(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read Citi statement: %w", err)
	}
	headerIdx := -1
	for i, row := range rows {
		if len(row) > 0 && strings.HasPrefix(row[0], "Security ID") {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, nil
	}
	header := rows[headerIdx]

	var investments []riskbalancer.Investment
	for _, row := range rows[headerIdx+1:] {
		if len(row) != len(header) {
			continue
		}
		record := zipRecord(header, row)
		symbol := strings.TrimSpace(record[header[0]])
		description := strings.TrimSpace(record["Description"])
		if symbol == "" && description == "" {
			continue
		}
		marketValue, err := parseOptionalMoney(record["Market Value"])
		if err != nil {
			return nil, fmt.Errorf("Citi row for %q: %w", symbol, err)
		}
		if marketValue == 0 {
			continue
		}
		gbpValue, err := a.opts.FX.Convert("USD", marketValue)
		if err != nil {
			return nil, fmt.Errorf("Citi row for %q: %w", symbol, err)
		}
		instrumentID := symbol
		if instrumentID == "" {
			instrumentID = description
		}
		if description == "" {
			description = symbol
		}
		inv, err := riskbalancer.NewInvestment(instrumentID, description, gbpValue, a.opts.DefaultCategory, a.opts.DefaultVolatility, "citi")
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, nil
}
