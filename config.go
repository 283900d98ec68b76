package riskbalancer

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// This file loads the user-authored category tree from YAML. The file is
// either a document with a top-level "assets" list, or a bare list of nodes.
//
//	assets:
//	  - name: Equities
//	    weight: 55%
//	    volatility: 0.175
//	    children:
//	      - name: Developed
//	        weight: 0.75
//	        ...

// weightValue accepts a plain fraction (0.25) or a percentage string ("25%").
type weightValue float64

func (w *weightValue) UnmarshalYAML(node *yaml.Node) error {
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		return fmt.Errorf("weight value is required")
	}
	cleaned := raw
	percent := false
	if strings.HasSuffix(cleaned, "%") {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "%"))
		percent = true
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return fmt.Errorf("cannot parse weight %q: %w", raw, err)
	}
	if percent {
		value /= 100
	}
	if value < 0 || value > 1 {
		return fmt.Errorf("weights must be between 0 and 1 (inclusive), got %q", raw)
	}
	*w = weightValue(value)
	return nil
}

// volatilityValue accepts a number or numeric string; non-positive values
// count as unset.
type volatilityValue float64

func (v *volatilityValue) UnmarshalYAML(node *yaml.Node) error {
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*v = 0
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("cannot parse volatility %q: %w", raw, err)
	}
	if value <= 0 {
		value = 0
	}
	*v = volatilityValue(value)
	return nil
}

// adjustmentValue accepts a non-negative number or numeric string.
// An explicit 0 is kept as 0 here and coerced to 1 by the flattener,
// same as an absent adjustment.
type adjustmentValue float64

func (a *adjustmentValue) UnmarshalYAML(node *yaml.Node) error {
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*a = 0
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("cannot parse adjustment %q: %w", raw, err)
	}
	if value < 0 {
		return fmt.Errorf("adjustment must be non-negative, got %q", raw)
	}
	*a = adjustmentValue(value)
	return nil
}

// categoryConfig is the YAML shape of one tree node. Weight is a pointer so
// an absent key is distinguishable from an explicit 0: every node must state
// its weight.
type categoryConfig struct {
	Name       string           `yaml:"name"`
	Weight     *weightValue     `yaml:"weight"`
	Volatility volatilityValue  `yaml:"volatility"`
	Adjustment adjustmentValue  `yaml:"adjustment"`
	Children   []categoryConfig `yaml:"children"`
}

func (c categoryConfig) toNode() (*CategoryNode, error) {
	if c.Weight == nil {
		return nil, fmt.Errorf("category %q: weight value is required", c.Name)
	}
	node := &CategoryNode{
		Name:       c.Name,
		Weight:     float64(*c.Weight),
		Volatility: float64(c.Volatility),
		Adjustment: float64(c.Adjustment),
	}
	for _, child := range c.Children {
		childNode, err := child.toNode()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}

// ParseCategoryForest parses category nodes from raw YAML. The document is
// either a mapping with an "assets" list or a bare list of nodes.
func ParseCategoryForest(data []byte) ([]*CategoryNode, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("category configuration YAML is empty")
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("cannot parse category configuration: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("category configuration YAML is empty")
	}
	content := root.Content[0]

	var entries []categoryConfig
	switch content.Kind {
	case yaml.SequenceNode:
		if err := content.Decode(&entries); err != nil {
			return nil, fmt.Errorf("cannot parse category configuration: %w", err)
		}
	case yaml.MappingNode:
		var doc struct {
			Assets []categoryConfig `yaml:"assets"`
		}
		if err := content.Decode(&doc); err != nil {
			return nil, fmt.Errorf("cannot parse category configuration: %w", err)
		}
		entries = doc.Assets
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("category configuration must define an 'assets' list")
	}
	nodes := make([]*CategoryNode, 0, len(entries))
	for _, entry := range entries {
		node, err := entry.toNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// LoadCategoryForest loads category nodes from a YAML file.
func LoadCategoryForest(path string) ([]*CategoryNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read category configuration %q: %w", path, err)
	}
	nodes, err := ParseCategoryForest(data)
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", path, err)
	}
	return nodes, nil
}

// LoadPlanOptions configures plan loading. Both tolerances of the flattener
// and the plan-level sum check use Tolerance, mirroring how plans are
// maintained by hand.
type LoadPlanOptions struct {
	Tolerance             float64
	DefaultLeafVolatility float64
}

// LoadPlan builds a PortfolioPlan by flattening the YAML category definitions.
func LoadPlan(path string, opts LoadPlanOptions) (*PortfolioPlan, error) {
	nodes, err := LoadCategoryForest(path)
	if err != nil {
		return nil, err
	}
	leaves, err := FlattenForest(nodes, FlattenOptions{
		DefaultLeafVolatility: opts.DefaultLeafVolatility,
		NodeTolerance:         opts.Tolerance,
		TopTolerance:          opts.Tolerance,
	})
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", path, err)
	}
	plan, err := NewPlanFromLeaves(leaves, opts.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", path, err)
	}
	return plan, nil
}
