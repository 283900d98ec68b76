package adapters

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/etezel/riskbalancer"
)

func TestNames(t *testing.T) {
	want := []string{"ajbell", "citi", "ibkr", "ms401k", "schwab"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestNewUnknownAdapter(t *testing.T) {
	if _, err := New("fidelity", Options{}); err == nil {
		t.Error("expected an error for an unknown adapter name")
	}
	a, err := New("AJBell", Options{})
	if err != nil {
		t.Fatalf("adapter lookup should be case insensitive: %v", err)
	}
	if a.Name() != "AJ Bell CSV" {
		t.Errorf("Name() = %q", a.Name())
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.defaults()
	if o.DefaultCategory != riskbalancer.MustCategoryPath("Uncategorized", "Pending Review") {
		t.Errorf("DefaultCategory = %q", o.DefaultCategory)
	}
	if o.DefaultVolatility != 0.2 {
		t.Errorf("DefaultVolatility = %g", o.DefaultVolatility)
	}

	// Explicit values survive.
	custom := Options{DefaultCategory: riskbalancer.MustCategoryPath("Other"), DefaultVolatility: 0.5}.defaults()
	if custom.DefaultCategory != riskbalancer.MustCategoryPath("Other") || custom.DefaultVolatility != 0.5 {
		t.Errorf("custom options overridden: %+v", custom)
	}
}

func TestParseFileStripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.csv")
	content := "\xef\xbb\xbfInvestment,Ticker,Quantity,Value (£)\nAMD Inc,AMD,10,\"1,000.00\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	adapter, err := New("ajbell", Options{})
	if err != nil {
		t.Fatal(err)
	}
	investments, err := ParseFile(adapter, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(investments) != 1 || investments[0].InstrumentID != "AMD" {
		t.Errorf("BOM not stripped, got %+v", investments)
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1234.56", 1234.56, false},
		{"1,234.56", 1234.56, false},
		{"£1,234.56", 1234.56, false},
		{"Â£17,717.24", 17717.24, false},
		{"$2,000", 2000, false},
		{"-500.25", -500.25, false},
		{"  ", 0, false},
		{"n/a", 0, true},
	}
	for _, tc := range tests {
		got, err := parseMoney(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("parseMoney(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("parseMoney(%q) = %g, want %g", tc.in, got, tc.want)
		}
	}
}
