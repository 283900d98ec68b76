package cmd

import (
	"strings"
	"testing"

	"github.com/etezel/riskbalancer"
)

func TestParseSourceSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    sourceSpec
		wantErr bool
	}{
		{
			"complete",
			"adapter=ajbell,statement=ajbell.csv,mappings=mappings/ajbell.yaml",
			sourceSpec{adapter: "ajbell", statement: "ajbell.csv", mappings: "mappings/ajbell.yaml"},
			false,
		},
		{
			"spaces and reordering",
			" mappings=m.yaml , adapter=ibkr, statement=s.csv ",
			sourceSpec{adapter: "ibkr", statement: "s.csv", mappings: "m.yaml"},
			false,
		},
		{"missing mappings", "adapter=ajbell,statement=s.csv", sourceSpec{}, true},
		{"segment without equals", "adapter=ajbell,oops,mappings=m.yaml", sourceSpec{}, true},
		{"empty", "", sourceSpec{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseSourceSpec(tc.spec)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseSourceSpec(%q) error = %v, wantErr %v", tc.spec, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("parseSourceSpec(%q) = %+v, want %+v", tc.spec, got, tc.want)
			}
		})
	}
}

func TestMissingMappings(t *testing.T) {
	category := riskbalancer.MustCategoryPath("Uncategorized", "Pending Review")
	inv := func(id string) riskbalancer.Investment {
		return riskbalancer.Investment{InstrumentID: id, MarketValue: 1, Category: category, Volatility: 0.2}
	}
	investments := []riskbalancer.Investment{inv("VWRL"), inv("SGLN"), inv("VWRL"), inv("AMD")}
	mappings := riskbalancer.Mappings{
		"SGLN": {Allocations: []riskbalancer.CategoryAllocation{{Path: riskbalancer.MustCategoryPath("Gold"), Weight: 1}}},
	}

	missing := missingMappings(investments, mappings)
	if strings.Join(missing, ",") != "AMD,VWRL" {
		t.Errorf("missingMappings() = %v, want [AMD VWRL] sorted and deduplicated", missing)
	}
}
