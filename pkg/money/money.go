// Package money keeps cart arithmetic in decimal so float inputs round the
// same way on every path.
package money

import "github.com/shopspring/decimal"

const places = 2

// Round2 rounds a monetary amount half away from zero to two decimals.
func Round2(amount float64) float64 {
	return FromFloat(amount).InexactFloat64()
}

// FromFloat converts a float amount into a decimal already rounded to cents.
func FromFloat(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(places)
}

// ToFloat rounds d to cents and returns it as a float.
func ToFloat(d decimal.Decimal) float64 {
	return d.Round(places).InexactFloat64()
}

// LineTotal multiplies a unit price by a quantity and rounds to cents.
func LineTotal(unitPrice float64, quantity int) float64 {
	return ToFloat(decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity))))
}
