package renderer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/etezel/riskbalancer"
)

// SummaryCSV exports the allocation summary for spreadsheet analysis.
func SummaryCSV(w io.Writer, s *riskbalancer.Summary) error {
	writer := csv.NewWriter(w)
	header := []string{
		"Category",
		"RiskWeightRaw",
		"RiskWeightNormalized",
		"Adjustment",
		"Volatility",
		"CashWeight",
		"ActualValueGBP",
		"TargetValueGBP",
		"DeltaGBP",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("cannot write summary header: %w", err)
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, row := range s.Rows {
		record := []string{
			row.Path.Label(),
			f(row.RiskWeight),
			f(row.NormalizedRW),
			f(row.Adjustment),
			f(row.Volatility),
			f(row.CashWeight),
			f(row.ActualValue),
			f(row.TargetValue),
			f(row.ActualValue - row.TargetValue),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("cannot write summary row for %q: %w", row.Path.Label(), err)
		}
	}
	writer.Flush()
	return writer.Error()
}
