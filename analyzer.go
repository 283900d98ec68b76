package riskbalancer

import "fmt"

// PortfolioAnalyzer computes risk-parity cash weights and diagnostics for a
// portfolio against a plan.
//
// Plain risk-weight allocation ignores volatility differences between
// categories; the analyzer instead divides each target weight by its
// volatility, so that each category contributes its target share of risk
// rather than of capital. Higher-volatility categories end up with smaller
// cash positions for the same risk budget.
type PortfolioAnalyzer struct {
	plan      *PortfolioPlan
	portfolio *Portfolio
}

func NewPortfolioAnalyzer(plan *PortfolioPlan, portfolio *Portfolio) *PortfolioAnalyzer {
	return &PortfolioAnalyzer{plan: plan, portfolio: portfolio}
}

// CashWeights returns the risk-parity target cash allocation per category.
// For each target, risk unit = normalized risk weight / volatility; the risk
// units are then normalized to sum to 1. The result does not depend on target
// order. It fails if the risk-unit sum is not positive, which the plan
// invariants rule out but is checked anyway.
func (a *PortfolioAnalyzer) CashWeights() (map[CategoryPath]float64, error) {
	riskUnits := make(map[CategoryPath]float64, a.plan.Len())
	var total float64
	for target := range a.plan.All() {
		unit := target.NormalizedRiskWeight() / target.Volatility()
		riskUnits[target.Path()] = unit
		total += unit
	}
	if total <= 0 {
		return nil, fmt.Errorf("sum of risk units must be positive, got %g", total)
	}
	weights := make(map[CategoryPath]float64, len(riskUnits))
	for path, unit := range riskUnits {
		weights[path] = unit / total
	}
	return weights, nil
}

// CategoryStatuses compares the actual weight of every plan category against
// its cash weight, in plan order. Targets with no matching holdings are
// reported with an actual weight of 0, not skipped. It fails when the
// portfolio's total value is not positive: the comparison is meaningless
// with no capital.
func (a *PortfolioAnalyzer) CategoryStatuses() ([]CategoryStatus, error) {
	totalValue := a.portfolio.TotalValue()
	if totalValue <= 0 {
		return nil, fmt.Errorf("portfolio total value must be positive to compute weights, got %g", totalValue)
	}
	cashWeights, err := a.CashWeights()
	if err != nil {
		return nil, err
	}
	totals := a.portfolio.ValueByCategory()
	statuses := make([]CategoryStatus, 0, a.plan.Len())
	for target := range a.plan.All() {
		statuses = append(statuses, CategoryStatus{
			Path:             target.Path(),
			ActualWeight:     totals[target.Path()] / totalValue,
			TargetCashWeight: cashWeights[target.Path()],
		})
	}
	return statuses, nil
}

// SummaryRow is one line of the full allocation report.
type SummaryRow struct {
	Path          CategoryPath
	RiskWeight    float64 // raw, before normalization
	NormalizedRW  float64
	Adjustment    float64
	Volatility    float64
	CashWeight    float64
	ActualValue   float64
	ActualWeight  float64
	TargetValue   float64 // cash weight times total portfolio value
}

// Summary aggregates the full report: one row per plan target plus the
// portfolio total.
type Summary struct {
	TotalValue float64
	Rows       []SummaryRow
}

// Summarize computes the full per-category report. Unlike CategoryStatuses it
// tolerates an empty portfolio: actual weights are reported as 0 so the plan
// targets can still be inspected.
func (a *PortfolioAnalyzer) Summarize() (*Summary, error) {
	cashWeights, err := a.CashWeights()
	if err != nil {
		return nil, err
	}
	totals := a.portfolio.ValueByCategory()
	totalValue := a.portfolio.TotalValue()

	rows := make([]SummaryRow, 0, a.plan.Len())
	for target := range a.plan.All() {
		actualValue := totals[target.Path()]
		var actualWeight float64
		if totalValue > 0 {
			actualWeight = actualValue / totalValue
		}
		cash := cashWeights[target.Path()]
		rows = append(rows, SummaryRow{
			Path:         target.Path(),
			RiskWeight:   target.RiskWeight(),
			NormalizedRW: target.NormalizedRiskWeight(),
			Adjustment:   target.Adjustment(),
			Volatility:   target.Volatility(),
			CashWeight:   cash,
			ActualValue:  actualValue,
			ActualWeight: actualWeight,
			TargetValue:  cash * totalValue,
		})
	}
	return &Summary{TotalValue: totalValue, Rows: rows}, nil
}
