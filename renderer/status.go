package renderer

import (
	"fmt"
	"strings"

	"github.com/etezel/riskbalancer"
)

// StatusMarkdown renders the per-category status comparison as a markdown
// table: actual weight against risk-parity cash weight.
func StatusMarkdown(statuses []riskbalancer.CategoryStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Category Status\n\n")
	fmt.Fprintln(&b, "| Category | Actual Wt | Cash Wt | Delta | Status |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|:---|")
	for _, s := range statuses {
		fmt.Fprintf(&b, "| %s | %.3f | %.3f | %+.3f | %s |\n",
			s.Path.Label(),
			s.ActualWeight,
			s.TargetCashWeight,
			s.Delta(),
			s.Status(),
		)
	}
	return b.String()
}
