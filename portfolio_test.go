package riskbalancer

import (
	"strings"
	"testing"
)

func mustInvestment(t *testing.T, id string, value float64, label string) Investment {
	t.Helper()
	path, err := ParseCategoryLabel(label)
	if err != nil {
		t.Fatal(err)
	}
	inv, err := NewInvestment(id, id, value, path, 0.2, "test")
	if err != nil {
		t.Fatal(err)
	}
	return inv
}

func TestNewInvestmentValidation(t *testing.T) {
	category := MustCategoryPath("Equities")
	tests := []struct {
		name       string
		value      float64
		volatility float64
		category   CategoryPath
		wantSub    string
	}{
		{"negative value", -1, 0.2, category, "market value"},
		{"zero volatility", 100, 0, category, "volatility"},
		{"negative volatility", 100, -0.2, category, "volatility"},
		{"missing category", 100, 0.2, "", "category"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewInvestment("VWRL", "Vanguard FTSE All-World", tc.value, tc.category, tc.volatility, "test")
			if err == nil || !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("NewInvestment() error = %v, want substring %q", err, tc.wantSub)
			}
		})
	}

	// Zero market value is allowed, positions can be temporarily worthless.
	if _, err := NewInvestment("VWRL", "", 0, category, 0.2, "test"); err != nil {
		t.Errorf("zero market value rejected: %v", err)
	}
}

func TestPortfolioAggregation(t *testing.T) {
	p := NewPortfolio()
	err := p.Extend([]Investment{
		mustInvestment(t, "VUSA", 6000, "Equities / Developed"),
		mustInvestment(t, "VFEM", 1000, "Equities / Emerging"),
		mustInvestment(t, "SGLN", 3000, "Gold"),
		mustInvestment(t, "VUSA2", 500, "Equities / Developed"),
	})
	if err != nil {
		t.Fatal(err)
	}

	if p.Len() != 4 {
		t.Errorf("Len() = %d, want 4", p.Len())
	}
	if got := p.TotalValue(); got != 10500 {
		t.Errorf("TotalValue() = %g, want 10500", got)
	}

	totals := p.ValueByCategory()
	if got := totals[MustCategoryPath("Equities", "Developed")]; got != 6500 {
		t.Errorf("Developed total = %g, want 6500", got)
	}
	if got := totals[MustCategoryPath("Gold")]; got != 3000 {
		t.Errorf("Gold total = %g, want 3000", got)
	}
	if _, ok := totals[MustCategoryPath("Bonds")]; ok {
		t.Error("absent category should be absent from totals, not zero")
	}
}

func TestPortfolioExtendStopsOnInvalid(t *testing.T) {
	p := NewPortfolio()
	batch := []Investment{
		mustInvestment(t, "OK", 100, "Equities"),
		{InstrumentID: "BAD", MarketValue: -5, Category: MustCategoryPath("Equities"), Volatility: 0.2},
	}
	if err := p.Extend(batch); err == nil {
		t.Fatal("expected an error on the invalid investment")
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d after failed Extend, want 1", p.Len())
	}
}

func TestPortfolioInvestmentsIsACopy(t *testing.T) {
	p := NewPortfolio()
	if err := p.Add(mustInvestment(t, "VUSA", 100, "Equities")); err != nil {
		t.Fatal(err)
	}
	got := p.Investments()
	got[0].MarketValue = 999
	if p.TotalValue() != 100 {
		t.Error("mutating the returned slice changed the portfolio")
	}
}
