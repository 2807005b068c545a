package calculator

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Debt represents a transfer from one participant to another.
type Debt struct {
	From              string // Name of the participant who owes
	To                string // Name of the participant who is owed
	FromParticipantID string
	ToParticipantID   string
	Amount            decimal.Decimal // Whole currency units
}

type openBalance struct {
	participantID string
	name          string
	balance       decimal.Decimal
}

// ResolveDebts turns net balances into a list of transfers that settles them.
//
// Creditors (net > Epsilon) are sorted by balance descending and debtors
// (net < -Epsilon) by balance ascending. Both sorts are stable, so ties keep
// input order. The largest debtor then pays the largest creditor the smaller
// of the two outstanding amounts until one side runs out.
//
// Transfer amounts are rounded to whole currency units. A step whose rounded
// amount is zero still settles the residue but is not emitted.
func ResolveDebts(balances []ParticipantBalance) []Debt {
	negEpsilon := Epsilon.Neg()

	var creditors, debtors []openBalance
	for _, b := range balances {
		switch {
		case b.NetBalance.GreaterThan(Epsilon):
			creditors = append(creditors, openBalance{b.ParticipantID, b.Name, b.NetBalance})
		case b.NetBalance.LessThan(negEpsilon):
			debtors = append(debtors, openBalance{b.ParticipantID, b.Name, b.NetBalance})
		}
	}

	slices.SortStableFunc(creditors, func(a, b openBalance) int {
		return b.balance.Cmp(a.balance)
	})
	slices.SortStableFunc(debtors, func(a, b openBalance) int {
		return a.balance.Cmp(b.balance)
	})

	debts := []Debt{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := decimal.Min(debtor.balance.Abs(), creditor.balance)

		if rounded := RoundHalfUp(amount, TransferScale); rounded.IsPositive() {
			debts = append(debts, Debt{
				From:              debtor.name,
				To:                creditor.name,
				FromParticipantID: debtor.participantID,
				ToParticipantID:   creditor.participantID,
				Amount:            rounded,
			})
		}

		debtor.balance = debtor.balance.Add(amount)
		creditor.balance = creditor.balance.Sub(amount)

		if debtor.balance.Abs().LessThan(Epsilon) {
			i++
		}
		if creditor.balance.LessThan(Epsilon) {
			j++
		}
	}

	return debts
}
