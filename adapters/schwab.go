package adapters

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/etezel/riskbalancer"
)

// Schwab parses Charles Schwab positions exports. The file carries preamble
// lines before the real header row (the one starting with "Symbol"); values
// are USD and converted to GBP.
type Schwab struct {
	opts Options
}

func NewSchwab(opts Options) *Schwab {
	return &Schwab{opts: opts.defaults()}
}

func (a *Schwab) Name() string { return "Schwab CSV" }

func (a *Schwab) Parse(r io.Reader) ([]riskbalancer.Investment, error) {
	rows, err := readAllRows(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read Schwab statement: %w", err)
	}
	headerIdx := -1
	for i, row := range rows {
		if len(row) > 0 && row[0] == "Symbol" {
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
		symbol := strings.TrimSpace(record["Symbol"])
		description := strings.TrimSpace(record["Description"])
		if symbol == "" && description == "" {
			continue
		}
		label := strings.ToLower(symbol)
		if label == "" {
			label = strings.ToLower(description)
		}
		if label == "total" || label == "account total" || strings.HasPrefix(label, "total ") {
			continue
		}
		valueRaw := record["Mkt Val (Market Value)"]
		if valueRaw == "" {
			valueRaw = record["Mtk Val (Market Value)"] // misspelled in some exports
		}
		marketValue, err := parseOptionalMoney(valueRaw)
		if err != nil {
			return nil, fmt.Errorf("Schwab row for %q: %w", symbol, err)
		}
		if marketValue == 0 {
			continue
		}
		gbpValue, err := a.opts.FX.Convert("USD", marketValue)
		if err != nil {
			return nil, fmt.Errorf("Schwab row for %q: %w", symbol, err)
		}
		instrumentID := symbol
		if instrumentID == "" {
			instrumentID = description
		}
		if description == "" {
			description = symbol
		}
		inv, err := riskbalancer.NewInvestment(instrumentID, description, gbpValue, a.opts.DefaultCategory, a.opts.DefaultVolatility, "schwab")
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, nil
}

// readAllRows reads the whole CSV dropping empty rows; sectioned exports are
// easier to scan from a slice than from a streaming reader.
func readAllRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	rows := all[:0]
	for _, row := range all {
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func zipRecord(header, row []string) map[string]string {
	record := make(map[string]string, len(header))
	for i, col := range header {
		record[col] = row[i]
	}
	return record
}
