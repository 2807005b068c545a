package calculator

import "github.com/shopspring/decimal"

// Participant is a person taking part in a gathering.
type Participant struct {
	ID   string
	Name string
}

// Round is one expense paid by a single participant and shared by everyone
// who is not excluded from it.
type Round struct {
	ID                     string
	Amount                 decimal.Decimal
	PayerID                string
	ExcludedParticipantIDs []string
}

// ParticipantBalance is the balance information for one participant.
type ParticipantBalance struct {
	ParticipantID string
	Name          string
	TotalPaid     decimal.Decimal // Total amount paid across all rounds
	TotalOwed     decimal.Decimal // Sum of this participant's rounded shares
	NetBalance    decimal.Decimal // Positive = owed money, Negative = owes money
}

// CalculateBalances computes paid, owed and net amounts for every participant.
//
// Algorithm:
//   - For each round: payer contributed +amount
//   - The round is split among all participants not excluded from it; each
//     share is rounded to ShareScale places independently, so the shares of a
//     round may not add up to its amount exactly
//   - A round that excludes everyone only credits its payer
//   - net_balance = total_paid - total_owed
//
// The result has one entry per participant, in input order. A round whose
// payer is not among participants still splits its cost but credits nobody.
func CalculateBalances(participants []Participant, rounds []Round) []ParticipantBalance {
	balances := make([]ParticipantBalance, len(participants))
	index := make(map[string]int, len(participants))
	for i, p := range participants {
		index[p.ID] = i
		balances[i] = ParticipantBalance{
			ParticipantID: p.ID,
			Name:          p.Name,
			TotalPaid:     decimal.Zero,
			TotalOwed:     decimal.Zero,
		}
	}

	for _, round := range rounds {
		if i, ok := index[round.PayerID]; ok {
			balances[i].TotalPaid = balances[i].TotalPaid.Add(round.Amount)
		}

		excluded := make(map[string]struct{}, len(round.ExcludedParticipantIDs))
		for _, id := range round.ExcludedParticipantIDs {
			excluded[id] = struct{}{}
		}

		included := make([]int, 0, len(participants))
		for i, p := range participants {
			if _, skip := excluded[p.ID]; !skip {
				included = append(included, i)
			}
		}
		if len(included) == 0 {
			continue
		}

		perPerson := DivideHalfUp(round.Amount, len(included), ShareScale)
		for _, i := range included {
			balances[i].TotalOwed = balances[i].TotalOwed.Add(perPerson)
		}
	}

	for i := range balances {
		balances[i].NetBalance = balances[i].TotalPaid.Sub(balances[i].TotalOwed)
	}

	return balances
}
