package calculator

import "github.com/shopspring/decimal"

// Settlement rounding policy. All monetary arithmetic in this package goes
// through decimal.Decimal and the helpers below; float64 never touches money.
const (
	// ShareScale is the number of decimal places a per-person share is rounded to.
	ShareScale int32 = 2

	// TransferScale is the number of decimal places an emitted transfer is rounded to.
	TransferScale int32 = 0
)

// Epsilon is one minor currency unit. Net balances within ±Epsilon of zero
// are treated as settled.
var Epsilon = decimal.New(1, -ShareScale)

// RoundHalfUp rounds d to places decimal places, ties away from zero.
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// DivideHalfUp divides d into n equal parts and rounds the quotient to places
// decimal places, ties away from zero. n must be positive.
func DivideHalfUp(d decimal.Decimal, n int, places int32) decimal.Decimal {
	return d.DivRound(decimal.NewFromInt(int64(n)), places)
}

// Sum adds up a list of amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
