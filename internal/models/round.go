package models

import "github.com/shopspring/decimal"

// Round represents one expense within a gathering, e.g. "1st round: BBQ".
type Round struct {
	// ID is the unique identifier for the round (UUID format).
	ID string

	// GatheringID is the gathering this round belongs to.
	GatheringID string

	// Title describes the expense.
	Title string

	// Amount is the total paid, with at most two decimal places.
	Amount decimal.Decimal

	// PayerID is the participant who paid.
	PayerID string

	// Exclusions lists participants who do not share this round's cost.
	// The payer may exclude themselves.
	Exclusions []Exclusion

	// CreatedAt is the Unix timestamp when the round was recorded.
	CreatedAt int64
}

// ExcludedParticipantIDs returns the IDs of excluded participants.
func (r *Round) ExcludedParticipantIDs() []string {
	ids := make([]string, len(r.Exclusions))
	for i, e := range r.Exclusions {
		ids[i] = e.ParticipantID
	}
	return ids
}

// Exclusion marks a participant as not responsible for a round's cost.
type Exclusion struct {
	ParticipantID string

	// Reason is an optional note, e.g. "left early".
	Reason string
}
