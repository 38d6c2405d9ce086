// Package money formats prices for display. Arithmetic stays in float64
// everywhere else; rounding happens here only.
package money

import "github.com/shopspring/decimal"

const Symbol = "€"

// Format renders v with two decimals, e.g. "€8.00".
func Format(v float64) string {
	return Symbol + decimal.NewFromFloat(v).StringFixed(2)
}

// Round2 rounds half away from zero to cents.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Discounted applies a percentage discount. It does not round; callers on
// both sides of the wire use it so a cart and an order price the same.
func Discounted(price, pct float64) float64 {
	if pct > 0 {
		return price * (1 - pct/100)
	}
	return price
}

// Rating renders an average rating with one decimal.
func Rating(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}
