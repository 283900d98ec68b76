package riskbalancer

import "fmt"

// CategoryTarget is the desired risk allocation for a fully qualified leaf
// category. It is created once per plan build and never mutated.
type CategoryTarget struct {
	path                 CategoryPath
	riskWeight           float64
	normalizedRiskWeight float64
	volatility           float64
	adjustment           float64
}

// NewCategoryTarget validates and builds a target.
// riskWeight is the raw product of ancestor weights and adjustment;
// normalized is that weight divided by the plan-wide total.
func NewCategoryTarget(path CategoryPath, riskWeight, normalized, volatility, adjustment float64) (CategoryTarget, error) {
	if path == "" {
		return CategoryTarget{}, fmt.Errorf("category target requires a path")
	}
	if riskWeight < 0 {
		return CategoryTarget{}, fmt.Errorf("category %q: risk weight must be non-negative, got %g", path.Label(), riskWeight)
	}
	if normalized < 0 || normalized > 1 {
		return CategoryTarget{}, fmt.Errorf("category %q: normalized risk weight must be between 0 and 1, got %g", path.Label(), normalized)
	}
	if volatility <= 0 {
		return CategoryTarget{}, fmt.Errorf("category %q: volatility must be positive, got %g", path.Label(), volatility)
	}
	if adjustment == 0 {
		adjustment = 1
	}
	if adjustment < 0 {
		return CategoryTarget{}, fmt.Errorf("category %q: adjustment must be non-negative, got %g", path.Label(), adjustment)
	}
	return CategoryTarget{
		path:                 path,
		riskWeight:           riskWeight,
		normalizedRiskWeight: normalized,
		volatility:           volatility,
		adjustment:           adjustment,
	}, nil
}

func (t CategoryTarget) Path() CategoryPath { return t.path }

// RiskWeight is the raw share of the configured risk budget, before
// plan-level normalization.
func (t CategoryTarget) RiskWeight() float64 { return t.riskWeight }

// NormalizedRiskWeight is the leaf's share of total risk budget, in [0,1].
func (t CategoryTarget) NormalizedRiskWeight() float64 { return t.normalizedRiskWeight }

func (t CategoryTarget) Volatility() float64 { return t.volatility }
func (t CategoryTarget) Adjustment() float64 { return t.adjustment }
