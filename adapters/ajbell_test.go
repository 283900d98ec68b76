package adapters

import (
	"strings"
	"testing"

	"github.com/etezel/riskbalancer"
)

const ajBellSample = `Investment,Ticker,Quantity,Price,Value (£)
"Advanced Micro Devices Inc",AMD,120,"147.64","17,717.24"
"Vanguard FTSE All-World",VWRL,55,"105.00","5,775.00"
"Cash balance",,,,"1,250.50"
"Pending order",PND,10,"1.00",
"Worthless position",NIL,5,"0.00","0.00"
`

func TestAJBellParse(t *testing.T) {
	adapter := NewAJBell(Options{})
	investments, err := adapter.Parse(strings.NewReader(ajBellSample))
	if err != nil {
		t.Fatal(err)
	}
	// Blank-value and zero-value rows are dropped.
	if len(investments) != 3 {
		t.Fatalf("got %d investments, want 3", len(investments))
	}

	byID := map[string]riskbalancer.Investment{}
	for _, inv := range investments {
		byID[inv.InstrumentID] = inv
	}

	amd, ok := byID["AMD"]
	if !ok {
		t.Fatal("AMD missing")
	}
	if amd.MarketValue != 17717.24 {
		t.Errorf("AMD market value = %g, want 17717.24", amd.MarketValue)
	}
	if amd.Quantity != 120 {
		t.Errorf("AMD quantity = %g, want 120", amd.Quantity)
	}
	if amd.Description != "Advanced Micro Devices Inc" {
		t.Errorf("AMD description = %q", amd.Description)
	}
	if amd.Category.Level(0) != "Uncategorized" {
		t.Errorf("AMD category = %q", amd.Category)
	}
	if amd.Volatility != 0.2 {
		t.Errorf("AMD volatility = %g, want the 0.2 default", amd.Volatility)
	}
	if amd.Source != "aj_bell" {
		t.Errorf("AMD source = %q", amd.Source)
	}

	// A row without a ticker falls back to the name as id.
	if _, ok := byID["Cash balance"]; !ok {
		t.Error("cash row keyed by name missing")
	}
}

func TestAJBellMangledValueHeader(t *testing.T) {
	// The pound sign arrives as mojibake depending on the export encoding.
	sample := "Investment,Ticker,Value (Â£)\n\"Gold ETC\",SGLN,\"3,000.00\"\n"
	investments, err := NewAJBell(Options{}).Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if len(investments) != 1 || investments[0].MarketValue != 3000 {
		t.Errorf("mangled header not recognized: %+v", investments)
	}
}

func TestAJBellBadNumber(t *testing.T) {
	sample := "Investment,Ticker,Value (£)\nBroken,BRK,not-a-number\n"
	if _, err := NewAJBell(Options{}).Parse(strings.NewReader(sample)); err == nil {
		t.Error("expected an error for an unparseable value")
	}
}
