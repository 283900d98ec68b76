// Package riskbalancer normalizes brokerage-statement holdings into a common
// model and compares the actual portfolio allocation against a hierarchical
// risk-parity target.
//
// The category tree is user-authored configuration: internal nodes distribute
// weight to their children, leaves carry volatility and an optional adjustment.
// Flattening the tree produces a PortfolioPlan of leaf targets whose normalized
// risk weights sum to 1. The PortfolioAnalyzer then sizes cash allocation
// inversely to volatility, so each category contributes its target share of
// risk rather than of capital.
package riskbalancer
