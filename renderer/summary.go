package renderer

import (
	"fmt"
	"strings"

	"github.com/etezel/riskbalancer"
)

// SummaryMarkdown renders the full allocation report as a markdown table,
// one row per plan target plus the portfolio total.
func SummaryMarkdown(s *riskbalancer.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio Allocation Summary\n\n")
	fmt.Fprintln(&b, "| Category | Risk Wt | Norm Wt | Adj | Vol | Cash Wt | Actual £ | Target £ | Delta £ |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|")
	for _, row := range s.Rows {
		delta := row.ActualValue - row.TargetValue
		fmt.Fprintf(&b, "| %s | %.3f | %.3f | %.2f | %.3f | %.3f | %s | %s | %s |\n",
			row.Path.Label(),
			row.RiskWeight,
			row.NormalizedRW,
			row.Adjustment,
			row.Volatility,
			row.CashWeight,
			gbp(row.ActualValue),
			gbp(row.TargetValue),
			gbp(delta),
		)
	}
	fmt.Fprintf(&b, "\nTotal Portfolio Value: %s\n", gbp(s.TotalValue))
	return b.String()
}
