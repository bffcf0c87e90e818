package money

import "math"

// Amounts are stored as integer cents everywhere inside the service.
// The HTTP layer speaks decimal units, so conversion lives here.

// CentsFromDecimal converts a decimal amount (e.g. 9.99) to cents,
// rounding half away from zero.
func CentsFromDecimal(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// DecimalFromCents converts cents back to decimal units for responses.
func DecimalFromCents(cents int64) float64 {
	return float64(cents) / 100
}
