package service

import (
	"github.com/mmynk/nbang/internal/calculator"
	"github.com/mmynk/nbang/internal/models"
	"github.com/mmynk/nbang/pkg/api"
)

func toAPIUser(user *models.User) *api.User {
	return &api.User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

func toAPIParticipants(participants []models.Participant) []*api.Participant {
	out := make([]*api.Participant, len(participants))
	for i, p := range participants {
		out[i] = &api.Participant{ID: p.ID, Name: p.Name}
	}
	return out
}

func toAPIGathering(g *models.Gathering) *api.Gathering {
	return &api.Gathering{
		ID:           g.ID,
		Name:         g.Name,
		Type:         string(g.Type),
		StartDate:    g.StartDate,
		EndDate:      g.EndDate,
		Participants: toAPIParticipants(g.Participants),
		CreatedAt:    g.CreatedAt,
	}
}

// toAPIRounds resolves payer and excluded participant names against the
// gathering's participant list.
func toAPIRounds(rounds []models.Round, participants []models.Participant) []*api.Round {
	names := make(map[string]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	out := make([]*api.Round, len(rounds))
	for i, r := range rounds {
		exclusions := make([]*api.Exclusion, len(r.Exclusions))
		for j, e := range r.Exclusions {
			exclusions[j] = &api.Exclusion{
				ParticipantID:   e.ParticipantID,
				ParticipantName: names[e.ParticipantID],
				Reason:          e.Reason,
			}
		}
		out[i] = &api.Round{
			ID:         r.ID,
			Title:      r.Title,
			Amount:     r.Amount,
			PayerID:    r.PayerID,
			PayerName:  names[r.PayerID],
			Exclusions: exclusions,
			CreatedAt:  r.CreatedAt,
		}
	}
	return out
}

func fromAPIExclusions(exclusions []*api.Exclusion) []models.Exclusion {
	out := make([]models.Exclusion, 0, len(exclusions))
	for _, e := range exclusions {
		if e == nil {
			continue
		}
		out = append(out, models.Exclusion{ParticipantID: e.ParticipantID, Reason: e.Reason})
	}
	return out
}

// toCalculatorInput strips the persistent models down to what the settlement
// core needs.
func toCalculatorInput(participants []models.Participant, rounds []models.Round) ([]calculator.Participant, []calculator.Round) {
	cp := make([]calculator.Participant, len(participants))
	for i, p := range participants {
		cp[i] = calculator.Participant{ID: p.ID, Name: p.Name}
	}

	cr := make([]calculator.Round, len(rounds))
	for i := range rounds {
		cr[i] = calculator.Round{
			ID:                     rounds[i].ID,
			Amount:                 rounds[i].Amount,
			PayerID:                rounds[i].PayerID,
			ExcludedParticipantIDs: rounds[i].ExcludedParticipantIDs(),
		}
	}
	return cp, cr
}

func toAPICalculation(g *models.Gathering, result calculator.Result) *api.Calculation {
	return api.NewCalculation(g.ID, g.Name, result)
}
