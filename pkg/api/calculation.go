package api

import "github.com/mmynk/nbang/internal/calculator"

// NewCalculation converts a settlement result into its wire form. The RPC
// services and the CLI's JSON output both go through it.
func NewCalculation(gatheringID, gatheringName string, result calculator.Result) *Calculation {
	balances := make([]*ParticipantBalance, len(result.Balances))
	for i, b := range result.Balances {
		balances[i] = &ParticipantBalance{
			ParticipantID: b.ParticipantID,
			Name:          b.Name,
			TotalPaid:     b.TotalPaid,
			TotalOwed:     b.TotalOwed,
			NetBalance:    b.NetBalance,
		}
	}

	debts := make([]*Debt, len(result.Debts))
	for i, d := range result.Debts {
		debts[i] = &Debt{
			From:              d.From,
			To:                d.To,
			FromParticipantID: d.FromParticipantID,
			ToParticipantID:   d.ToParticipantID,
			Amount:            d.Amount,
		}
	}

	return &Calculation{
		GatheringID:   gatheringID,
		GatheringName: gatheringName,
		TotalAmount:   result.TotalAmount,
		Balances:      balances,
		Debts:         debts,
	}
}
