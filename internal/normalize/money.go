package normalize

import "math"

// DollarsToCents converts a float64 dollar amount to int64 cents.
// Uses math.Round to avoid truncation bias over millions of additions.
func DollarsToCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// CentsToDollars converts int64 cents back to a float64 dollar amount for
// report serialization. Internal accumulation never round-trips through
// this; it exists only at the report boundary.
func CentsToDollars(c int64) float64 {
	return float64(c) / 100
}
