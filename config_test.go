package riskbalancer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCategoriesYAML = `
assets:
  - name: Equities
    weight: 55%
    volatility: 0.175
    children:
      - name: Developed
        weight: 0.75
        children:
          - name: NAM
            weight: 0.34
          - name: Europe
            weight: 0.33
          - name: Asia
            weight: 0.33
      - name: Emerging
        weight: 25%
        volatility: 0.22
  - name: Bonds
    weight: 0.30
    volatility: 0.045
    adjustment: 0.5
  - name: Gold
    weight: 0.15
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCategoryForest(t *testing.T) {
	nodes, err := ParseCategoryForest([]byte(testCategoriesYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 3 {
		t.Fatalf("got %d roots, want 3", len(nodes))
	}

	equities := nodes[0]
	if equities.Name != "Equities" {
		t.Errorf("first root = %q", equities.Name)
	}
	// "55%" parses to the fraction.
	if equities.Weight != 0.55 {
		t.Errorf("equities weight = %g, want 0.55", equities.Weight)
	}
	if equities.Volatility != 0.175 {
		t.Errorf("equities volatility = %g", equities.Volatility)
	}
	if got := nodes[0].Children[1].Weight; got != 0.25 {
		t.Errorf("emerging weight = %g, want 0.25", got)
	}
	if got := nodes[1].Adjustment; got != 0.5 {
		t.Errorf("bonds adjustment = %g, want 0.5", got)
	}
}

func TestParseCategoryForestBareList(t *testing.T) {
	nodes, err := ParseCategoryForest([]byte(`
- name: Equities
  weight: 0.6
- name: Bonds
  weight: 0.4
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 || nodes[0].Name != "Equities" {
		t.Errorf("bare list parse failed: %v", nodes)
	}
}

func TestParseCategoryForestErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantSub string
	}{
		{"empty", "", "empty"},
		{"weight above one", "- name: A\n  weight: 1.5\n", "between 0 and 1"},
		{"negative weight", "- name: A\n  weight: -0.2\n", "between 0 and 1"},
		{"garbage weight", "- name: A\n  weight: heavy\n", "weight"},
		{"negative adjustment", "- name: A\n  weight: 1\n  adjustment: -2\n", "adjustment"},
		{"missing weight", "- name: A\n", `category "A": weight value is required`},
		{"null weight", "- name: A\n  weight:\n", "weight value is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCategoryForest([]byte(tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("ParseCategoryForest() error = %v, want substring %q", err, tc.wantSub)
			}
		})
	}
}

func TestParseCategoryForestRequiresChildWeight(t *testing.T) {
	// A child with no weight must fail the parse, not flatten into a
	// risk-weight-0 leaf behind a sibling carrying the full weight.
	_, err := ParseCategoryForest([]byte(`
- name: Assets
  weight: 1.0
  children:
    - name: A
      weight: 1.0
    - name: B
`))
	if err == nil || !strings.Contains(err.Error(), `category "B": weight value is required`) {
		t.Errorf("ParseCategoryForest() error = %v, want missing weight for B", err)
	}
}

func TestLoadPlan(t *testing.T) {
	path := writeTempFile(t, "categories.yaml", testCategoriesYAML)

	plan, err := LoadPlan(path, LoadPlanOptions{Tolerance: 2e-2, DefaultLeafVolatility: 0.15})
	if err != nil {
		t.Fatal(err)
	}
	if plan.Len() != 6 {
		t.Fatalf("got %d targets, want 6 leaves", plan.Len())
	}

	nam, ok := plan.Get(MustCategoryPath("Equities", "Developed", "NAM"))
	if !ok {
		t.Fatal("NAM target missing")
	}
	if !almostEqual(nam.RiskWeight(), 0.55*0.75*0.34, 1e-12) {
		t.Errorf("NAM risk weight = %g, want %g", nam.RiskWeight(), 0.55*0.75*0.34)
	}
	// NAM has no volatility of its own, it inherits the Equities 0.175.
	if nam.Volatility() != 0.175 {
		t.Errorf("NAM volatility = %g, want inherited 0.175", nam.Volatility())
	}

	bonds, _ := plan.Get(MustCategoryPath("Bonds"))
	if !almostEqual(bonds.RiskWeight(), 0.30*0.5, 1e-12) {
		t.Errorf("Bonds risk weight = %g, want %g after adjustment", bonds.RiskWeight(), 0.30*0.5)
	}

	gold, _ := plan.Get(MustCategoryPath("Gold"))
	if gold.Volatility() != 0.15 {
		t.Errorf("Gold volatility = %g, want the 0.15 default", gold.Volatility())
	}

	// Normalized weights always sum to 1 regardless of adjustments.
	var total float64
	for target := range plan.All() {
		total += target.NormalizedRiskWeight()
	}
	if !almostEqual(total, 1.0, 1e-9) {
		t.Errorf("normalized weights sum to %g", total)
	}
}

func TestLoadPlanTopSumFailure(t *testing.T) {
	path := writeTempFile(t, "categories.yaml", `
assets:
  - name: Equities
    weight: 0.5
  - name: Bonds
    weight: 0.3
`)
	_, err := LoadPlan(path, LoadPlanOptions{Tolerance: 2e-2, DefaultLeafVolatility: 0.15})
	if err == nil || !strings.Contains(err.Error(), "top level") {
		t.Errorf("expected a top level sum error, got %v", err)
	}
}

func TestLoadPlanMissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "nope.yaml"), LoadPlanOptions{Tolerance: 2e-2, DefaultLeafVolatility: 0.15})
	if err == nil {
		t.Error("expected an error for a missing file")
	}
}
