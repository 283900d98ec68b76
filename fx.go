package riskbalancer

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"gopkg.in/yaml.v3"
)

// Currency conversion happens in the statement adapters, never inside the
// allocation engine: by the time an Investment reaches the core, its market
// value is in the reporting currency (GBP).

// FXRates maps an upper-case currency code to its GBP rate (GBP per one unit
// of the currency).
type FXRates map[string]float64

// Convert converts a value in the given currency to GBP. GBP and the empty
// currency pass through unchanged.
func (r FXRates) Convert(currency string, value float64) (float64, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" || currency == "GBP" {
		return value, nil
	}
	rate, ok := r[currency]
	if !ok {
		return 0, fmt.Errorf("missing FX rate for %s: add it to the fx file or run 'rb fetch-fx'", currency)
	}
	return value * rate, nil
}

// fxConfig is the YAML shape of the fx file:
//
//	base: GBP
//	rates:
//	  USD: 0.8
//	  EUR: 0.9
type fxConfig struct {
	Base  string             `yaml:"base"`
	Rates map[string]float64 `yaml:"rates"`
}

// LoadFXRates loads the rate table from a YAML file.
func LoadFXRates(path string) (FXRates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read fx rates %q: %w", path, err)
	}
	var cfg fxConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse fx rates %q: %w", path, err)
	}
	if cfg.Base != "" && strings.ToUpper(cfg.Base) != "GBP" {
		return nil, fmt.Errorf("fx rates %q: base currency must be GBP, got %q", path, cfg.Base)
	}
	rates := make(FXRates, len(cfg.Rates))
	for currency, rate := range cfg.Rates {
		if rate <= 0 {
			return nil, fmt.Errorf("fx rates %q: rate for %s must be positive, got %g", path, currency, rate)
		}
		rates[strings.ToUpper(currency)] = rate
	}
	return rates, nil
}

// SaveFXRates writes the rate table back to a YAML file.
func SaveFXRates(path string, rates FXRates) error {
	cfg := fxConfig{Base: "GBP", Rates: map[string]float64{}}
	for currency, rate := range rates {
		cfg.Rates[currency] = rate
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot serialize fx rates: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create fx directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write fx rates %q: %w", path, err)
	}
	return nil
}

// fxFeedBase serves daily reference rates as JSON
// ({"rates": {"GBP": 0.79}, ...}).
const fxFeedBase = "https://api.frankfurter.app"

// FetchFXRates retrieves the latest GBP rate for each requested currency from
// the public feed. Use DailyCachedClient to avoid refetching within a day.
func FetchFXRates(client *http.Client, currencies ...string) (FXRates, error) {
	return fetchFXRates(client, fxFeedBase, currencies...)
}

func fetchFXRates(client *http.Client, base string, currencies ...string) (FXRates, error) {
	rates := make(FXRates, len(currencies))
	sort.Strings(currencies)
	for _, currency := range currencies {
		currency = strings.ToUpper(strings.TrimSpace(currency))
		if currency == "" || currency == "GBP" {
			continue
		}
		addr := fmt.Sprintf("%s/latest?from=%s&to=GBP", base, currency)
		var jobj any
		if err := jwget(client, addr, &jobj); err != nil {
			return nil, fmt.Errorf("cannot fetch fx rate for %s: %w", currency, err)
		}
		jval, err := jsonpath.Get("$.rates.GBP", jobj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse fx response for %s: %w", currency, err)
		}
		rate, ok := jval.(float64)
		if !ok || rate <= 0 {
			return nil, fmt.Errorf("invalid fx rate for %s: %v", currency, jval)
		}
		rates[currency] = rate
	}
	return rates, nil
}
