package dto

import "github.com/shopspring/decimal"

// Money rounds a decimal to cents for JSON output.
func Money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// Percent rounds a percentage to two places for JSON output.
func Percent(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
