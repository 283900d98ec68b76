package riskbalancer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// This file persists built portfolios as JSON snapshot files, human readable
// and easy to keep under version control. A snapshot records the plan it was
// built against, creation/update timestamps and the normalized investments.

// Snapshot is a stored portfolio: investments plus metadata.
type Snapshot struct {
	Plan        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Investments []Investment
}

// storedVolatilityFloor replaces a missing or zero stored volatility when
// hydrating, so old snapshots without the field still load.
const storedVolatilityFloor = 1e-4

// MarshalJSON writes the investment with a stable field order.
func (inv Investment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("instrument_id", inv.InstrumentID)
	w.Append("description", inv.Description)
	w.Append("market_value", inv.MarketValue)
	w.Optional("quantity", inv.Quantity)
	w.Append("category", inv.Category.Label())
	w.Append("volatility", inv.Volatility)
	w.Append("source", inv.Source)
	return w.MarshalJSON()
}

// UnmarshalJSON hydrates an investment from stored snapshot data.
func (inv *Investment) UnmarshalJSON(data []byte) error {
	var j struct {
		InstrumentID string  `json:"instrument_id"`
		Description  string  `json:"description"`
		MarketValue  float64 `json:"market_value"`
		Quantity     float64 `json:"quantity"`
		Category     string  `json:"category"`
		Volatility   float64 `json:"volatility"`
		Source       string  `json:"source"`
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	category, err := ParseCategoryLabel(j.Category)
	if err != nil {
		return fmt.Errorf("investment %q: %w", j.InstrumentID, err)
	}
	if j.Volatility == 0 {
		j.Volatility = storedVolatilityFloor
	}
	if j.Source == "" {
		j.Source = "portfolio"
	}
	*inv = Investment{
		InstrumentID: j.InstrumentID,
		Description:  j.Description,
		MarketValue:  j.MarketValue,
		Quantity:     j.Quantity,
		Category:     category,
		Volatility:   j.Volatility,
		Source:       j.Source,
	}
	return nil
}

func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("plan", s.Plan)
	w.Append("created_at", s.CreatedAt.UTC().Format(time.RFC3339))
	if !s.UpdatedAt.IsZero() {
		w.Append("updated_at", s.UpdatedAt.UTC().Format(time.RFC3339))
	}
	w.Append("investments", s.Investments)
	return w.MarshalJSON()
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var j struct {
		Plan        string       `json:"plan"`
		CreatedAt   time.Time    `json:"created_at"`
		UpdatedAt   time.Time    `json:"updated_at"`
		Investments []Investment `json:"investments"`
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*s = Snapshot{Plan: j.Plan, CreatedAt: j.CreatedAt, UpdatedAt: j.UpdatedAt, Investments: j.Investments}
	return nil
}

// SaveSnapshot persists a full portfolio snapshot.
func SaveSnapshot(path, planPath string, investments []Investment) error {
	snapshot := &Snapshot{
		Plan:        planPath,
		CreatedAt:   time.Now(),
		Investments: investments,
	}
	return writeSnapshot(path, snapshot)
}

func writeSnapshot(path string, snapshot *Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize snapshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write snapshot %q: %w", path, err)
	}
	return nil
}

// LoadSnapshot loads a previously stored portfolio snapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read snapshot %q: %w", path, err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("cannot parse snapshot %q: %w", path, err)
	}
	return &snapshot, nil
}

// AppendManualInvestment appends a manually entered investment to a stored
// snapshot and stamps the update time.
func AppendManualInvestment(path string, inv Investment) error {
	snapshot, err := LoadSnapshot(path)
	if err != nil {
		return err
	}
	if err := inv.validate(); err != nil {
		return err
	}
	snapshot.Investments = append(snapshot.Investments, inv)
	snapshot.UpdatedAt = time.Now()
	return writeSnapshot(path, snapshot)
}

// ResolveSnapshotPath resolves a portfolio name into its file path: a bare
// name (no extension) lands in dir as <name>.json, anything with an
// extension is used as given. Directories are rejected.
func ResolveSnapshotPath(dir, value string) (string, error) {
	if info, err := os.Stat(value); err == nil && info.IsDir() {
		return "", fmt.Errorf("portfolio path must be a file, not a directory: %q", value)
	}
	if filepath.Ext(value) == "" {
		return filepath.Join(dir, value+".json"), nil
	}
	return value, nil
}
