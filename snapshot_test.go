package riskbalancer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.json")
	investments := []Investment{
		mustInvestment(t, "VWRL", 7000, "Equities / Developed / NAM"),
		mustInvestment(t, "SGLN", 3000, "Gold"),
	}
	investments[0].Quantity = 55.5

	if err := SaveSnapshot(path, "config/categories.yaml", investments); err != nil {
		t.Fatal(err)
	}
	snapshot, err := LoadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}

	if snapshot.Plan != "config/categories.yaml" {
		t.Errorf("Plan = %q", snapshot.Plan)
	}
	if snapshot.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
	if !snapshot.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be zero on a fresh snapshot")
	}
	if len(snapshot.Investments) != 2 {
		t.Fatalf("got %d investments, want 2", len(snapshot.Investments))
	}
	vwrl := snapshot.Investments[0]
	if vwrl.InstrumentID != "VWRL" || vwrl.MarketValue != 7000 || vwrl.Quantity != 55.5 {
		t.Errorf("VWRL did not survive the round trip: %+v", vwrl)
	}
	if vwrl.Category != MustCategoryPath("Equities", "Developed", "NAM") {
		t.Errorf("VWRL category = %q", vwrl.Category)
	}
}

func TestSnapshotHydrationDefaults(t *testing.T) {
	// Snapshots written by earlier versions carry no volatility or source.
	path := writeTempFile(t, "old.json", `{
  "plan": "categories.yaml",
  "created_at": "2025-04-01T10:00:00Z",
  "investments": [
    {
      "instrument_id": "CASH",
      "description": "Cash balance",
      "market_value": 1200.5,
      "category": "Cash / GBP"
    }
  ]
}`)
	snapshot, err := LoadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	inv := snapshot.Investments[0]
	if inv.Volatility != 1e-4 {
		t.Errorf("volatility = %g, want the %g floor", inv.Volatility, 1e-4)
	}
	if inv.Source != "portfolio" {
		t.Errorf("source = %q, want portfolio", inv.Source)
	}
}

func TestAppendManualInvestment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.json")
	if err := SaveSnapshot(path, "categories.yaml", []Investment{
		mustInvestment(t, "VWRL", 7000, "Equities / Developed"),
	}); err != nil {
		t.Fatal(err)
	}

	manual := mustInvestment(t, "CASH_ISA", 12000, "Cash / GBP")
	manual.Source = "manual"
	if err := AppendManualInvestment(path, manual); err != nil {
		t.Fatal(err)
	}

	snapshot, err := LoadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshot.Investments) != 2 {
		t.Fatalf("got %d investments, want 2", len(snapshot.Investments))
	}
	if snapshot.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped by the append")
	}
	added := snapshot.Investments[1]
	if added.InstrumentID != "CASH_ISA" || added.Source != "manual" {
		t.Errorf("appended investment = %+v", added)
	}
}

func TestAppendManualInvestmentValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.json")
	if err := SaveSnapshot(path, "categories.yaml", nil); err != nil {
		t.Fatal(err)
	}
	bad := Investment{InstrumentID: "BAD", MarketValue: -10, Category: MustCategoryPath("Cash"), Volatility: 0.1}
	if err := AppendManualInvestment(path, bad); err == nil {
		t.Error("expected an error on an invalid investment")
	}
}

func TestResolveSnapshotPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("bare name lands in the portfolio dir", func(t *testing.T) {
		got, err := ResolveSnapshotPath("portfolios", "main")
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join("portfolios", "main.json"); got != want {
			t.Errorf("ResolveSnapshotPath = %q, want %q", got, want)
		}
	})

	t.Run("explicit path passes through", func(t *testing.T) {
		got, err := ResolveSnapshotPath("portfolios", "elsewhere/custom.json")
		if err != nil {
			t.Fatal(err)
		}
		if got != "elsewhere/custom.json" {
			t.Errorf("ResolveSnapshotPath = %q", got)
		}
	})

	t.Run("directories are rejected", func(t *testing.T) {
		sub := filepath.Join(dir, "somedir")
		if err := os.MkdirAll(sub, 0755); err != nil {
			t.Fatal(err)
		}
		_, err := ResolveSnapshotPath("portfolios", sub)
		if err == nil || !strings.Contains(err.Error(), "directory") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestSnapshotFieldOrderStable(t *testing.T) {
	// Snapshots are kept under version control; field order must not drift.
	inv := mustInvestment(t, "VWRL", 1000, "Gold")
	data, err := inv.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	order := []string{"instrument_id", "description", "market_value", "category", "volatility", "source"}
	last := -1
	for _, key := range order {
		i := strings.Index(s, `"`+key+`"`)
		if i < 0 {
			t.Fatalf("key %q missing in %s", key, s)
		}
		if i < last {
			t.Errorf("key %q out of order in %s", key, s)
		}
		last = i
	}
	// Zero quantity is omitted entirely.
	if strings.Contains(s, "quantity") {
		t.Errorf("zero quantity should be omitted, got %s", s)
	}
}
