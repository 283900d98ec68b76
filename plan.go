package riskbalancer

import (
	"fmt"
	"iter"
	"math"
	"sort"
)

// PortfolioPlan holds the desired target allocation across the hierarchy.
// It is immutable after construction and safe to share across goroutines.
type PortfolioPlan struct {
	targets   map[CategoryPath]CategoryTarget
	order     []CategoryPath
	tolerance float64
}

// NewPortfolioPlan validates the targets and builds the plan. It fails on an
// empty target list, a duplicate path, or normalized weights not summing to 1
// within tolerance.
func NewPortfolioPlan(targets []CategoryTarget, tolerance float64) (*PortfolioPlan, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("portfolio plan requires at least one category target")
	}
	p := &PortfolioPlan{
		targets:   make(map[CategoryPath]CategoryTarget, len(targets)),
		order:     make([]CategoryPath, 0, len(targets)),
		tolerance: tolerance,
	}
	var total float64
	for _, target := range targets {
		if _, dup := p.targets[target.Path()]; dup {
			return nil, fmt.Errorf("duplicate category path specified: %s", target.Path().Label())
		}
		p.targets[target.Path()] = target
		p.order = append(p.order, target.Path())
		total += target.NormalizedRiskWeight()
	}
	if math.Abs(total-1.0) > tolerance {
		return nil, fmt.Errorf("total target weight across categories must sum to 1 within %g, got %g", tolerance, total)
	}
	return p, nil
}

// Len returns the number of targets.
func (p *PortfolioPlan) Len() int { return len(p.order) }

// Tolerance returns the sum tolerance the plan was validated with.
func (p *PortfolioPlan) Tolerance() float64 { return p.tolerance }

// Get looks up the target for an exact category path.
func (p *PortfolioPlan) Get(path CategoryPath) (CategoryTarget, bool) {
	t, ok := p.targets[path]
	return t, ok
}

// All iterates the targets in insertion order.
func (p *PortfolioPlan) All() iter.Seq[CategoryTarget] {
	return func(yield func(CategoryTarget) bool) {
		for _, path := range p.order {
			if !yield(p.targets[path]) {
				return
			}
		}
	}
}

// Targets returns the targets in insertion order.
func (p *PortfolioPlan) Targets() []CategoryTarget {
	out := make([]CategoryTarget, 0, len(p.order))
	for _, path := range p.order {
		out = append(out, p.targets[path])
	}
	return out
}

// Labels returns the sorted human readable labels of all targets.
func (p *PortfolioPlan) Labels() []string {
	labels := make([]string, 0, len(p.order))
	for _, path := range p.order {
		labels = append(labels, path.Label())
	}
	sort.Strings(labels)
	return labels
}
