// utils/money.go
package utils

import (
	"github.com/shopspring/decimal"
)

// Round2 rounds a money amount to 2 decimal places, half away from zero.
// All ledger arithmetic goes through here so repeated float math can't
// drift fractions of a unit.
func Round2(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return f
}

// RoundWhole rounds a money amount to the nearest whole currency unit,
// half away from zero. Payroll deductions and wage components are
// expressed in whole units.
func RoundWhole(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(0).Float64()
	return f
}

// MulRound multiplies two amounts and rounds the result to 2 dp.
func MulRound(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).Round(2).Float64()
	return f
}

// SumRound adds amounts with decimal precision and rounds to 2 dp.
func SumRound(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	f, _ := total.Round(2).Float64()
	return f
}
