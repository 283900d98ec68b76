package adapters

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parseMoney parses a statement money value into a float64. Broker exports
// decorate numbers with currency signs, thousands separators and the
// occasional mojibake ("Â£"); all of it is stripped before parsing through
// decimal to avoid accumulating binary float noise on the way in.
// A blank value parses to 0.
func parseMoney(value string) (float64, error) {
	replacer := strings.NewReplacer(",", "", "£", "", "$", "", "%", "", "Â", "")
	sanitized := strings.TrimSpace(replacer.Replace(value))
	if sanitized == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(sanitized)
	if err != nil {
		return 0, fmt.Errorf("cannot parse number %q: %w", value, err)
	}
	return d.InexactFloat64(), nil
}

// parseOptionalMoney is parseMoney for values that may be absent.
func parseOptionalMoney(value string) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return parseMoney(value)
}
