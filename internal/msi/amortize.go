// Package msi implements the no-interest installment ("meses sin intereses")
// amortization math.
package msi

import "github.com/shopspring/decimal"

const (
	// MinMonths is exclusive: a 1-month plan is not an installment plan.
	MinMonths = 1
	// MaxMonths is inclusive.
	MaxMonths = 60
)

// MonthsValid reports whether a month count is an acceptable installment
// term, i.e. inside (1, 60].
func MonthsValid(months int) bool {
	return months > MinMonths && months <= MaxMonths
}

// Amortize returns the monthly figure for a purchase total spread evenly
// over the given months, rounded half-away-from-zero at 2 decimals.
func Amortize(total float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	monthly := decimal.NewFromFloat(total).
		Div(decimal.NewFromInt(int64(months))).
		Round(2)
	f, _ := monthly.Float64()
	return f
}

// Round2 rounds a monetary amount half-away-from-zero at 2 decimals. Shared
// by the amortizer and the FX conversion.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
