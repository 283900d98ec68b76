package riskbalancer

import "fmt"

// Investment is the normalized view of a single line item coming from a
// broker statement. Values are already converted to the reporting currency
// by the adapter that produced them.
type Investment struct {
	InstrumentID string
	Description  string
	MarketValue  float64
	// Quantity is the number of units when the statement reports one,
	// 0 otherwise.
	Quantity   float64
	Category   CategoryPath
	Volatility float64
	Source     string
}

// NewInvestment validates and builds an investment record.
func NewInvestment(instrumentID, description string, marketValue float64, category CategoryPath, volatility float64, source string) (Investment, error) {
	inv := Investment{
		InstrumentID: instrumentID,
		Description:  description,
		MarketValue:  marketValue,
		Category:     category,
		Volatility:   volatility,
		Source:       source,
	}
	if err := inv.validate(); err != nil {
		return Investment{}, err
	}
	return inv, nil
}

func (inv Investment) validate() error {
	if inv.MarketValue < 0 {
		return fmt.Errorf("investment %q: market value must not be negative, got %g", inv.InstrumentID, inv.MarketValue)
	}
	if inv.Volatility <= 0 {
		return fmt.Errorf("investment %q: volatility must be positive, got %g", inv.InstrumentID, inv.Volatility)
	}
	if inv.Category == "" {
		return fmt.Errorf("investment %q: category is required", inv.InstrumentID)
	}
	return nil
}

// Portfolio is a mutable, append-only collection of normalized investments.
// It is not intended for concurrent writers.
type Portfolio struct {
	investments []Investment
}

func NewPortfolio() *Portfolio { return &Portfolio{} }

// Add validates and appends a single investment.
func (p *Portfolio) Add(inv Investment) error {
	if err := inv.validate(); err != nil {
		return err
	}
	p.investments = append(p.investments, inv)
	return nil
}

// Extend appends all given investments, stopping at the first invalid one.
func (p *Portfolio) Extend(investments []Investment) error {
	for _, inv := range investments {
		if err := p.Add(inv); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of investments.
func (p *Portfolio) Len() int { return len(p.investments) }

// Investments returns a copy of the holdings in insertion order.
func (p *Portfolio) Investments() []Investment {
	out := make([]Investment, len(p.investments))
	copy(out, p.investments)
	return out
}

// TotalValue sums the market value of all holdings.
func (p *Portfolio) TotalValue() float64 {
	var total float64
	for _, inv := range p.investments {
		total += inv.MarketValue
	}
	return total
}

// ValueByCategory aggregates market value per exact category path.
// Categories with no holdings are absent from the result, not zero-filled.
func (p *Portfolio) ValueByCategory() map[CategoryPath]float64 {
	totals := make(map[CategoryPath]float64)
	for _, inv := range p.investments {
		totals[inv.Category] += inv.MarketValue
	}
	return totals
}
