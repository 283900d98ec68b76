package adapters

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/etezel/riskbalancer"
)

// AJBell parses AJ Bell CSV statements. Values are GBP native, so no FX
// conversion applies.
type AJBell struct {
	opts Options
}

func NewAJBell(opts Options) *AJBell {
	return &AJBell{opts: opts.defaults()}
}

func (a *AJBell) Name() string { return "AJ Bell CSV" }

// valueHeaders lists the known spellings of the value column. The pound sign
// arrives mangled depending on the export encoding.
var ajBellValueHeaders = []string{"Value (£)", "Value (Â£)", "Value (£ )", "Value"}

func (a *AJBell) Parse(r io.Reader) ([]riskbalancer.Investment, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read AJ Bell header: %w", err)
	}
	cols := headerIndex(header)

	var investments []riskbalancer.Investment
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read AJ Bell row: %w", err)
		}
		inv, ok, err := a.rowToInvestment(cols, record)
		if err != nil {
			return nil, err
		}
		if ok {
			investments = append(investments, inv)
		}
	}
	return investments, nil
}

func (a *AJBell) rowToInvestment(cols map[string]int, record []string) (riskbalancer.Investment, bool, error) {
	name := field(cols, record, "Investment")
	valueRaw := firstField(cols, record, ajBellValueHeaders...)
	ticker := firstField(cols, record, "Ticker", "Symbol")
	quantityRaw := field(cols, record, "Quantity")
	if name == "" || valueRaw == "" {
		return riskbalancer.Investment{}, false, nil
	}
	marketValue, err := parseMoney(valueRaw)
	if err != nil {
		return riskbalancer.Investment{}, false, fmt.Errorf("AJ Bell row for %q: %w", name, err)
	}
	if marketValue == 0 {
		return riskbalancer.Investment{}, false, nil
	}
	quantity, err := parseOptionalMoney(quantityRaw)
	if err != nil {
		return riskbalancer.Investment{}, false, fmt.Errorf("AJ Bell row for %q: %w", name, err)
	}
	instrumentID := ticker
	if instrumentID == "" {
		instrumentID = name
	}
	inv, err := riskbalancer.NewInvestment(instrumentID, name, marketValue, a.opts.DefaultCategory, a.opts.DefaultVolatility, "aj_bell")
	if err != nil {
		return riskbalancer.Investment{}, false, err
	}
	inv.Quantity = quantity
	return inv, true, nil
}

// headerIndex maps lower-cased column names to their position.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, col := range header {
		cols[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return cols
}

func field(cols map[string]int, record []string, name string) string {
	i, ok := cols[strings.ToLower(name)]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// firstField returns the first present column among the given names.
func firstField(cols map[string]int, record []string, names ...string) string {
	for _, name := range names {
		if _, ok := cols[strings.ToLower(name)]; ok {
			return field(cols, record, name)
		}
	}
	return ""
}
