package riskbalancer

import (
	"fmt"
	"math"
)

// CategoryNode is one node of the user-authored category tree.
//
// Weight is the node's fraction relative to its siblings, in [0,1].
// Volatility is optional: a non-positive value means unset, and leaves inherit
// the nearest ancestor's explicit volatility. Adjustment multiplies the leaf's
// raw risk weight; the zero value means unset and is treated as 1.
type CategoryNode struct {
	Name       string
	Weight     float64
	Volatility float64
	Adjustment float64
	Children   []*CategoryNode
}

// effectiveAdjustment treats both unset and explicit zero as 1. An explicit
// zero coercing to 1 mirrors historical behavior; a plain 0 would otherwise
// silently drop the branch from the risk budget.
func (n *CategoryNode) effectiveAdjustment() float64 {
	if n.Adjustment == 0 {
		return 1
	}
	return n.Adjustment
}

// Validate checks that the node and all its descendants are well formed:
// weights in range, adjustments non-negative, and every internal node's
// children weights summing to 1 within tolerance.
func (n *CategoryNode) Validate(tolerance float64) error {
	if n.Name == "" {
		return fmt.Errorf("category node requires a name")
	}
	if n.Weight < 0 || n.Weight > 1 {
		return fmt.Errorf("category %q: weight must be between 0 and 1, got %g", n.Name, n.Weight)
	}
	if n.Adjustment < 0 {
		return fmt.Errorf("category %q: adjustment must be non-negative, got %g", n.Name, n.Adjustment)
	}
	if len(n.Children) == 0 {
		return nil
	}
	var total float64
	for _, child := range n.Children {
		total += child.Weight
	}
	if math.Abs(total-1.0) > tolerance {
		return fmt.Errorf("children of %q must sum to 1 within %g, got %g", n.Name, tolerance, total)
	}
	for _, child := range n.Children {
		if err := child.Validate(tolerance); err != nil {
			return err
		}
	}
	return nil
}

// Leaf is one flattened leaf category descriptor.
type Leaf struct {
	Path CategoryPath
	// AbsoluteWeight is the product of ancestor weights, before adjustment.
	AbsoluteWeight float64
	// RiskWeight is AbsoluteWeight times the leaf adjustment.
	RiskWeight float64
	Volatility float64
	Adjustment float64
}

// FlattenOptions carries the explicit configuration the flattener needs.
// Defaults are a caller concern: the zero value is not usable.
type FlattenOptions struct {
	// DefaultLeafVolatility applies to leaves with no explicit or inherited
	// volatility. Must be positive for such leaves to flatten.
	DefaultLeafVolatility float64
	// NodeTolerance bounds each internal node's children weight sum.
	NodeTolerance float64
	// TopTolerance bounds the root-level weight sum. Usually looser than
	// NodeTolerance to accommodate hand-edited configurations.
	TopTolerance float64
}

// FlattenForest validates the forest and produces the flat list of leaf
// descriptors, depth first, in configuration order.
func FlattenForest(roots []*CategoryNode, opts FlattenOptions) ([]Leaf, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("category tree is empty")
	}
	var topTotal float64
	for _, root := range roots {
		topTotal += root.Weight
	}
	if math.Abs(topTotal-1.0) > opts.TopTolerance {
		return nil, fmt.Errorf("top level categories must sum to 1 within %g, got %g", opts.TopTolerance, topTotal)
	}
	for _, root := range roots {
		if err := root.Validate(opts.NodeTolerance); err != nil {
			return nil, err
		}
	}
	var leaves []Leaf
	for _, root := range roots {
		var err error
		leaves, err = root.flatten(nil, 1.0, 0, opts, leaves)
		if err != nil {
			return nil, err
		}
	}
	return leaves, nil
}

// flatten walks the subtree carrying the cumulative parent weight and the
// nearest ancestor's explicit volatility (0 when none).
func (n *CategoryNode) flatten(prefix []string, parentWeight, inheritedVolatility float64, opts FlattenOptions, acc []Leaf) ([]Leaf, error) {
	path := append(append([]string(nil), prefix...), n.Name)
	absoluteWeight := parentWeight * n.Weight
	volatility := n.Volatility
	if volatility <= 0 {
		volatility = inheritedVolatility
	}
	if len(n.Children) > 0 {
		for _, child := range n.Children {
			var err error
			acc, err = child.flatten(path, absoluteWeight, volatility, opts, acc)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	}
	if volatility <= 0 {
		volatility = opts.DefaultLeafVolatility
	}
	if volatility <= 0 {
		return nil, fmt.Errorf("leaf category %q needs a positive volatility", n.Name)
	}
	leafPath, err := NewCategoryPath(path...)
	if err != nil {
		return nil, fmt.Errorf("leaf category %q: %w", n.Name, err)
	}
	adjustment := n.effectiveAdjustment()
	acc = append(acc, Leaf{
		Path:           leafPath,
		AbsoluteWeight: absoluteWeight,
		RiskWeight:     absoluteWeight * adjustment,
		Volatility:     volatility,
		Adjustment:     adjustment,
	})
	return acc, nil
}

// NewPlanFromLeaves normalizes the flattened leaves and builds the plan.
// The total risk weight across all leaves must be positive.
func NewPlanFromLeaves(leaves []Leaf, tolerance float64) (*PortfolioPlan, error) {
	var total float64
	for _, leaf := range leaves {
		total += leaf.RiskWeight
	}
	if total <= 0 {
		return nil, fmt.Errorf("total risk weight must be positive, got %g", total)
	}
	targets := make([]CategoryTarget, 0, len(leaves))
	for _, leaf := range leaves {
		target, err := NewCategoryTarget(leaf.Path, leaf.RiskWeight, leaf.RiskWeight/total, leaf.Volatility, leaf.Adjustment)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return NewPortfolioPlan(targets, tolerance)
}
