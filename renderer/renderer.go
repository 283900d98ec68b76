// Package renderer turns analyzer output into markdown and CSV reports.
// The markdown is meant to be piped through a terminal markdown renderer,
// but stays readable raw.
package renderer

import (
	"math"

	"github.com/Rhymond/go-money"
)

// gbp formats a float amount as a GBP money string ("£1,234.56").
func gbp(v float64) string {
	return money.New(int64(math.Round(v*100)), money.GBP).Display()
}
