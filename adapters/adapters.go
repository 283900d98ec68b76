// Package adapters normalizes broker statement exports into Investment
// records. Each adapter understands one broker's CSV layout; currency
// conversion to GBP happens here, so the allocation engine only ever sees
// reporting-currency values.
package adapters

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/etezel/riskbalancer"
)

// Adapter parses one broker's statement format.
type Adapter interface {
	// Name is the human readable source name.
	Name() string
	// Parse returns the normalized investments found in the statement.
	Parse(r io.Reader) ([]riskbalancer.Investment, error)
}

// Options is the shared adapter configuration. Categories are assigned later
// from the instrument mappings; the adapter only stamps the default.
type Options struct {
	DefaultCategory   riskbalancer.CategoryPath
	DefaultVolatility float64
	// FX converts statement currencies to GBP. Required by adapters whose
	// statements are not GBP-denominated.
	FX riskbalancer.FXRates
}

func (o Options) defaults() Options {
	if o.DefaultCategory == "" {
		o.DefaultCategory = riskbalancer.MustCategoryPath("Uncategorized", "Pending Review")
	}
	if o.DefaultVolatility <= 0 {
		o.DefaultVolatility = 0.2
	}
	return o
}

var registry = map[string]func(Options) Adapter{
	"ajbell": func(o Options) Adapter { return NewAJBell(o) },
	"ibkr":   func(o Options) Adapter { return NewIBKR(o) },
	"schwab": func(o Options) Adapter { return NewSchwab(o) },
	"citi":   func(o Options) Adapter { return NewCiti(o) },
	"ms401k": func(o Options) Adapter { return NewMS401K(o) },
}

// Names returns the sorted registered adapter names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the adapter registered under the given name.
func New(name string, opts Options) (Adapter, error) {
	factory, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown adapter %q. Available: %s", name, strings.Join(Names(), ", "))
	}
	return factory(opts), nil
}

// ParseFile opens a statement file and parses it, stripping the UTF-8 BOM
// that broker exports routinely carry.
func ParseFile(a Adapter, path string) ([]riskbalancer.Investment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read statement %q: %w", path, err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	investments, err := a.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("in statement %q: %w", path, err)
	}
	return investments, nil
}
