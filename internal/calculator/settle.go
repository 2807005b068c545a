package calculator

import "github.com/shopspring/decimal"

// Result is the outcome of settling one gathering.
type Result struct {
	TotalAmount decimal.Decimal
	Balances    []ParticipantBalance
	Debts       []Debt
}

// Settle computes balances for the given participants and rounds and resolves
// them into transfers. It is safe for concurrent use.
func Settle(participants []Participant, rounds []Round) Result {
	amounts := make([]decimal.Decimal, len(rounds))
	for i, r := range rounds {
		amounts[i] = r.Amount
	}

	balances := CalculateBalances(participants, rounds)
	return Result{
		TotalAmount: Sum(amounts...),
		Balances:    balances,
		Debts:       ResolveDebts(balances),
	}
}
