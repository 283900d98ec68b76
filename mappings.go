package riskbalancer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// This file handles the user-maintained instrument mappings: which plan
// categories (and in which proportion) each statement instrument belongs to.
// The format is a YAML map keyed by instrument id:
//
//	VWRL:
//	  allocations:
//	    - category: Equities / Developed / NAM
//	      weight: 0.7
//	    - category: Equities / Developed / Europe
//	      weight: 0.3
//	  volatility: 0.18

// CategoryAllocation is a single category allocation entry for an instrument.
type CategoryAllocation struct {
	Path   CategoryPath
	Weight float64
}

// InstrumentMapping is user-defined allocation metadata and an optional
// volatility override (0 means none).
type InstrumentMapping struct {
	Allocations []CategoryAllocation
	Volatility  float64
}

// Normalized returns the allocations scaled so their weights sum to 1.
func (m InstrumentMapping) Normalized() ([]CategoryAllocation, error) {
	if len(m.Allocations) == 0 {
		return nil, fmt.Errorf("instrument mapping must contain at least one category")
	}
	var total float64
	for _, a := range m.Allocations {
		total += a.Weight
	}
	if total <= 0 {
		return nil, fmt.Errorf("allocation weights must be positive, got sum %g", total)
	}
	out := make([]CategoryAllocation, 0, len(m.Allocations))
	for _, a := range m.Allocations {
		out = append(out, CategoryAllocation{Path: a.Path, Weight: a.Weight / total})
	}
	return out, nil
}

// Mappings maps instrument ids to their allocation metadata.
type Mappings map[string]InstrumentMapping

// yaml shapes. An allocation entry is either a bare category label or a
// {category, weight} object; a legacy mapping may carry a single "category"
// instead of "allocations".
type allocationConfig struct {
	Category string  `yaml:"category"`
	Weight   float64 `yaml:"weight"`
}

func (a *allocationConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		a.Category = node.Value
		a.Weight = 1.0
		return nil
	}
	type plain allocationConfig
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.Weight == 0 {
		p.Weight = 1.0
	}
	*a = allocationConfig(p)
	return nil
}

type mappingConfig struct {
	Allocations []allocationConfig `yaml:"allocations"`
	Category    string             `yaml:"category"`
	Volatility  float64            `yaml:"volatility"`
}

// LoadMappings loads instrument mappings from a YAML file. A missing file is
// an empty mapping set, not an error.
func LoadMappings(path string) (Mappings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Mappings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read mappings %q: %w", path, err)
	}
	var raw map[string]mappingConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("cannot parse mappings %q: %w", path, err)
	}
	mappings := make(Mappings, len(raw))
	for instrument, payload := range raw {
		entries := payload.Allocations
		if len(entries) == 0 && payload.Category != "" {
			entries = []allocationConfig{{Category: payload.Category, Weight: 1.0}}
		}
		if len(entries) == 0 {
			continue
		}
		var allocations []CategoryAllocation
		for _, entry := range entries {
			if strings.TrimSpace(entry.Category) == "" {
				continue
			}
			path, err := ParseCategoryLabel(entry.Category)
			if err != nil {
				return nil, fmt.Errorf("mapping for %q: %w", instrument, err)
			}
			allocations = append(allocations, CategoryAllocation{Path: path, Weight: entry.Weight})
		}
		if len(allocations) == 0 {
			continue
		}
		mappings[instrument] = InstrumentMapping{
			Allocations: allocations,
			Volatility:  payload.Volatility,
		}
	}
	return mappings, nil
}

// SaveMappings persists instrument mappings to YAML, instruments sorted for
// stable diffs.
func SaveMappings(path string, mappings Mappings) error {
	type jalloc struct {
		Category string  `yaml:"category"`
		Weight   float64 `yaml:"weight"`
	}
	type jmapping struct {
		Allocations []jalloc `yaml:"allocations"`
		Volatility  float64  `yaml:"volatility,omitempty"`
	}
	serializable := make(map[string]jmapping, len(mappings))
	for instrument, mapping := range mappings {
		jm := jmapping{Volatility: mapping.Volatility}
		for _, a := range mapping.Allocations {
			jm.Allocations = append(jm.Allocations, jalloc{Category: a.Path.Label(), Weight: a.Weight})
		}
		serializable[instrument] = jm
	}
	data, err := yaml.Marshal(serializable)
	if err != nil {
		return fmt.Errorf("cannot serialize mappings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create mappings directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write mappings %q: %w", path, err)
	}
	return nil
}

// PlanIndex resolves free-form category labels to the plan's canonical paths,
// case-insensitively and ignoring spacing around separators.
type PlanIndex struct {
	labels map[string]CategoryPath
}

// NewPlanIndex builds the index over all plan targets.
func NewPlanIndex(plan *PortfolioPlan) *PlanIndex {
	labels := make(map[string]CategoryPath, plan.Len())
	for target := range plan.All() {
		labels[normalizeLabel(target.Path().Label())] = target.Path()
	}
	return &PlanIndex{labels: labels}
}

func normalizeLabel(label string) string {
	var parts []string
	for _, part := range strings.Split(label, pathSeparator) {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.ToLower(strings.Join(parts, " / "))
}

// Resolve returns the canonical path for a free-form label.
func (x *PlanIndex) Resolve(raw string) (CategoryPath, bool) {
	path, ok := x.labels[normalizeLabel(raw)]
	return path, ok
}

// Labels returns the sorted canonical labels, for prompts and error messages.
func (x *PlanIndex) Labels() []string {
	labels := make([]string, 0, len(x.labels))
	for _, path := range x.labels {
		labels = append(labels, path.Label())
	}
	sort.Strings(labels)
	return labels
}

// ParseAllocationInput parses user-typed comma-separated category labels with
// optional weights ("Equities / Developed / NAM=70, Equities / Developed /
// Europe=30"). A bare label counts as 100.
func ParseAllocationInput(input string, index *PlanIndex) ([]CategoryAllocation, error) {
	var allocations []CategoryAllocation
	for _, entry := range strings.Split(input, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		label, weightText := entry, "100"
		if i := strings.IndexAny(entry, "=:"); i >= 0 {
			label, weightText = entry[:i], entry[i+1:]
		}
		path, ok := index.Resolve(label)
		if !ok {
			return nil, fmt.Errorf("unknown category path %q", strings.TrimSpace(label))
		}
		weight, err := parseWeightInput(weightText)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, CategoryAllocation{Path: path, Weight: weight})
	}
	if len(allocations) == 0 {
		return nil, fmt.Errorf("at least one allocation must be provided")
	}
	var total float64
	for _, a := range allocations {
		total += a.Weight
	}
	if total <= 0 {
		return nil, fmt.Errorf("allocation weights must be positive")
	}
	return allocations, nil
}

// parseWeightInput parses textual weights (e.g. "70" or "70%") into
// fractions. Values above 1 are read as percentages.
func parseWeightInput(raw string) (float64, error) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(raw), "%")
	if cleaned == "" {
		return 0, fmt.Errorf("weight value is required")
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse weight %q: %w", raw, err)
	}
	if value > 1 {
		value /= 100
	}
	if value <= 0 {
		return 0, fmt.Errorf("weights must be positive, got %q", raw)
	}
	return value, nil
}

// ApplyMappings splits each investment across its mapped categories and
// returns the flattened list. Unmapped investments pass through unchanged.
func ApplyMappings(investments []Investment, mappings Mappings) ([]Investment, error) {
	expanded := make([]Investment, 0, len(investments))
	for _, inv := range investments {
		mapping, ok := mappings[inv.InstrumentID]
		if !ok {
			expanded = append(expanded, inv)
			continue
		}
		allocations, err := mapping.Normalized()
		if err != nil {
			return nil, fmt.Errorf("mapping for %q: %w", inv.InstrumentID, err)
		}
		for _, allocation := range allocations {
			split := inv
			split.Category = allocation.Path
			split.MarketValue = inv.MarketValue * allocation.Weight
			if inv.Quantity != 0 {
				split.Quantity = inv.Quantity * allocation.Weight
			}
			if mapping.Volatility > 0 {
				split.Volatility = mapping.Volatility
			}
			expanded = append(expanded, split)
		}
	}
	return expanded, nil
}
