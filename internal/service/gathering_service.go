package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/nbang/internal/calculator"
	"github.com/mmynk/nbang/internal/models"
	"github.com/mmynk/nbang/internal/storage"
	"github.com/mmynk/nbang/pkg/api"
	"github.com/mmynk/nbang/pkg/api/apiconnect"
)

// GatheringService implements the Connect GatheringService. Every call is
// scoped to gatherings owned by the authenticated user.
type GatheringService struct {
	store storage.Store
}

var _ apiconnect.GatheringServiceHandler = (*GatheringService)(nil)

// NewGatheringService creates a new GatheringService with the given storage backend.
func NewGatheringService(store storage.Store) *GatheringService {
	return &GatheringService{store: store}
}

// CreateGathering creates a gathering owned by the caller, optionally with
// an initial list of participants.
func (s *GatheringService) CreateGathering(ctx context.Context, req *connect.Request[api.CreateGatheringRequest]) (*connect.Response[api.CreateGatheringResponse], error) {
	slog.Info("CreateGathering request received",
		"name", req.Msg.Name,
		"participants_count", len(req.Msg.ParticipantNames),
	)

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	gathering := &models.Gathering{OwnerID: userID}
	if err := applyGatheringFields(gathering, req.Msg.Name, req.Msg.Type, req.Msg.StartDate, req.Msg.EndDate); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(req.Msg.ParticipantNames))
	for _, raw := range req.Msg.ParticipantNames {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, invalidArgument("participant name is required")
		}
		if seen[name] {
			return nil, invalidArgument("duplicate participant name %q", name)
		}
		seen[name] = true
		gathering.Participants = append(gathering.Participants, models.Participant{Name: name})
	}

	if err := s.store.CreateGathering(ctx, gathering); err != nil {
		slog.Error("CreateGathering failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Gathering created", "gathering_id", gathering.ID, "owner_id", userID)

	return connect.NewResponse(&api.CreateGatheringResponse{
		Gathering: toAPIGathering(gathering),
	}), nil
}

// GetGathering returns a gathering with its participants and rounds.
func (s *GatheringService) GetGathering(ctx context.Context, req *connect.Request[api.GetGatheringRequest]) (*connect.Response[api.GetGatheringResponse], error) {
	slog.Info("GetGathering request received", "gathering_id", req.Msg.GatheringID)

	gathering, err := ownedGathering(ctx, s.store, req.Msg.GatheringID)
	if err != nil {
		return nil, err
	}

	rounds, err := s.store.ListRounds(ctx, gathering.ID)
	if err != nil {
		slog.Error("Failed to list rounds", "gathering_id", gathering.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := toAPIGathering(gathering)
	out.Rounds = toAPIRounds(rounds, gathering.Participants)

	slog.Info("GetGathering successful", "gathering_id", gathering.ID, "rounds_count", len(rounds))

	return connect.NewResponse(&api.GetGatheringResponse{Gathering: out}), nil
}

// ListGatherings returns the caller's gatherings, newest first.
func (s *GatheringService) ListGatherings(ctx context.Context, req *connect.Request[api.ListGatheringsRequest]) (*connect.Response[api.ListGatheringsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	gatherings, err := s.store.ListGatheringsByOwner(ctx, userID)
	if err != nil {
		slog.Error("ListGatherings failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Gathering, len(gatherings))
	for i, g := range gatherings {
		participants, err := s.store.ListParticipants(ctx, g.ID)
		if err != nil {
			slog.Error("Failed to list participants", "gathering_id", g.ID, "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		g.Participants = participants
		out[i] = toAPIGathering(g)
	}

	slog.Info("ListGatherings successful", "user_id", userID, "count", len(out))

	return connect.NewResponse(&api.ListGatheringsResponse{Gatherings: out}), nil
}

// UpdateGathering replaces a gathering's name, type and dates.
func (s *GatheringService) UpdateGathering(ctx context.Context, req *connect.Request[api.UpdateGatheringRequest]) (*connect.Response[api.UpdateGatheringResponse], error) {
	slog.Info("UpdateGathering request received", "gathering_id", req.Msg.GatheringID, "name", req.Msg.Name)

	gathering, err := ownedGathering(ctx, s.store, req.Msg.GatheringID)
	if err != nil {
		return nil, err
	}

	if err := applyGatheringFields(gathering, req.Msg.Name, req.Msg.Type, req.Msg.StartDate, req.Msg.EndDate); err != nil {
		return nil, err
	}

	if err := s.store.UpdateGathering(ctx, gathering); err != nil {
		slog.Error("UpdateGathering failed", "gathering_id", gathering.ID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Gathering updated", "gathering_id", gathering.ID)

	return connect.NewResponse(&api.UpdateGatheringResponse{
		Gathering: toAPIGathering(gathering),
	}), nil
}

// DeleteGathering removes a gathering and everything recorded for it.
func (s *GatheringService) DeleteGathering(ctx context.Context, req *connect.Request[api.DeleteGatheringRequest]) (*connect.Response[api.DeleteGatheringResponse], error) {
	slog.Info("DeleteGathering request received", "gathering_id", req.Msg.GatheringID)

	gathering, err := ownedGathering(ctx, s.store, req.Msg.GatheringID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteGathering(ctx, gathering.ID); err != nil {
		slog.Error("DeleteGathering failed", "gathering_id", gathering.ID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Gathering deleted", "gathering_id", gathering.ID)

	return connect.NewResponse(&api.DeleteGatheringResponse{}), nil
}

// AddParticipant appends a participant to a gathering.
func (s *GatheringService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	slog.Info("AddParticipant request received", "gathering_id", req.Msg.GatheringID, "name", req.Msg.Name)

	gathering, err := ownedGathering(ctx, s.store, req.Msg.GatheringID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("participant name is required")
	}
	for _, p := range gathering.Participants {
		if p.Name == name {
			return nil, invalidArgument("duplicate participant name %q", name)
		}
	}

	participant := &models.Participant{GatheringID: gathering.ID, Name: name}
	if err := s.store.AddParticipant(ctx, participant); err != nil {
		slog.Error("AddParticipant failed", "gathering_id", gathering.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Participant added", "gathering_id", gathering.ID, "participant_id", participant.ID)

	return connect.NewResponse(&api.AddParticipantResponse{
		Participant: &api.Participant{ID: participant.ID, Name: participant.Name},
	}), nil
}

// RemoveParticipant removes a participant who has not paid for any round.
// Their exclusions go with them.
func (s *GatheringService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	slog.Info("RemoveParticipant request received",
		"gathering_id", req.Msg.GatheringID,
		"participant_id", req.Msg.ParticipantID,
	)

	gathering, err := ownedGathering(ctx, s.store, req.Msg.GatheringID)
	if err != nil {
		return nil, err
	}

	if err := s.store.RemoveParticipant(ctx, gathering.ID, req.Msg.ParticipantID); err != nil {
		slog.Warn("RemoveParticipant failed", "participant_id", req.Msg.ParticipantID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Participant removed", "gathering_id", gathering.ID, "participant_id", req.Msg.ParticipantID)

	return connect.NewResponse(&api.RemoveParticipantResponse{}), nil
}

// CreateRound records an expense paid by one participant.
func (s *GatheringService) CreateRound(ctx context.Context, req *connect.Request[api.CreateRoundRequest]) (*connect.Response[api.CreateRoundResponse], error) {
	slog.Info("CreateRound request received",
		"gathering_id", req.Msg.GatheringID,
		"title", req.Msg.Title,
		"amount", req.Msg.Amount,
		"exclusions_count", len(req.Msg.Exclusions),
	)

	gathering, err := ownedGathering(ctx, s.store, req.Msg.GatheringID)
	if err != nil {
		return nil, err
	}

	round := &models.Round{
		GatheringID: gathering.ID,
		Title:       strings.TrimSpace(req.Msg.Title),
		Amount:      req.Msg.Amount,
		PayerID:     req.Msg.PayerID,
		Exclusions:  fromAPIExclusions(req.Msg.Exclusions),
	}
	if err := validateRound(gathering, round); err != nil {
		return nil, err
	}

	if err := s.store.CreateRound(ctx, round); err != nil {
		slog.Error("CreateRound failed", "gathering_id", gathering.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Round created", "gathering_id", gathering.ID, "round_id", round.ID)

	return connect.NewResponse(&api.CreateRoundResponse{
		Round: toAPIRounds([]models.Round{*round}, gathering.Participants)[0],
	}), nil
}

// UpdateRound replaces a round's title, amount, payer and exclusions.
func (s *GatheringService) UpdateRound(ctx context.Context, req *connect.Request[api.UpdateRoundRequest]) (*connect.Response[api.UpdateRoundResponse], error) {
	slog.Info("UpdateRound request received", "round_id", req.Msg.RoundID, "amount", req.Msg.Amount)

	existing, gathering, err := s.ownedRound(ctx, req.Msg.RoundID)
	if err != nil {
		return nil, err
	}

	round := &models.Round{
		ID:          existing.ID,
		GatheringID: existing.GatheringID,
		Title:       strings.TrimSpace(req.Msg.Title),
		Amount:      req.Msg.Amount,
		PayerID:     req.Msg.PayerID,
		Exclusions:  fromAPIExclusions(req.Msg.Exclusions),
		CreatedAt:   existing.CreatedAt,
	}
	if err := validateRound(gathering, round); err != nil {
		return nil, err
	}

	if err := s.store.UpdateRound(ctx, round); err != nil {
		slog.Error("UpdateRound failed", "round_id", round.ID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Round updated", "round_id", round.ID)

	return connect.NewResponse(&api.UpdateRoundResponse{
		Round: toAPIRounds([]models.Round{*round}, gathering.Participants)[0],
	}), nil
}

// DeleteRound removes a round.
func (s *GatheringService) DeleteRound(ctx context.Context, req *connect.Request[api.DeleteRoundRequest]) (*connect.Response[api.DeleteRoundResponse], error) {
	slog.Info("DeleteRound request received", "round_id", req.Msg.RoundID)

	round, _, err := s.ownedRound(ctx, req.Msg.RoundID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteRound(ctx, round.ID); err != nil {
		slog.Error("DeleteRound failed", "round_id", round.ID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Round deleted", "round_id", round.ID)

	return connect.NewResponse(&api.DeleteRoundResponse{}), nil
}

// ownedRound loads a round and the gathering it belongs to, checking the
// caller owns the gathering.
func (s *GatheringService) ownedRound(ctx context.Context, roundID string) (*models.Round, *models.Gathering, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, nil, err
	}
	if roundID == "" {
		return nil, nil, invalidArgument("round id is required")
	}

	round, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		slog.Warn("Failed to load round", "round_id", roundID, "error", err)
		return nil, nil, storageError(err)
	}

	gathering, err := ownedGathering(ctx, s.store, round.GatheringID)
	if err != nil {
		return nil, nil, err
	}
	return round, gathering, nil
}

// applyGatheringFields validates and sets the editable gathering fields.
func applyGatheringFields(g *models.Gathering, name, gatheringType, startDate, endDate string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalidArgument("gathering name is required")
	}
	t, err := models.ParseGatheringType(gatheringType)
	if err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := models.ValidateDates(startDate, endDate); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	g.Name = name
	g.Type = t
	g.StartDate = startDate
	g.EndDate = endDate
	return nil
}

// validateRound enforces what the settlement core takes as preconditions:
// a positive amount in cents and a payer and exclusions drawn from the
// gathering's participants.
func validateRound(g *models.Gathering, r *models.Round) error {
	if r.Title == "" {
		return invalidArgument("round title is required")
	}
	if !r.Amount.IsPositive() {
		return invalidArgument("amount must be positive, got %s", r.Amount)
	}
	if !r.Amount.Equal(r.Amount.Round(calculator.ShareScale)) {
		return invalidArgument("amount %s has more than %d decimal places", r.Amount, calculator.ShareScale)
	}

	members := make(map[string]bool, len(g.Participants))
	for _, p := range g.Participants {
		members[p.ID] = true
	}
	if !members[r.PayerID] {
		return connect.NewError(connect.CodeInvalidArgument, errUnknownParticipant)
	}

	excluded := make(map[string]bool, len(r.Exclusions))
	for _, e := range r.Exclusions {
		if !members[e.ParticipantID] {
			return connect.NewError(connect.CodeInvalidArgument, errUnknownParticipant)
		}
		if excluded[e.ParticipantID] {
			return invalidArgument("participant %s excluded twice", e.ParticipantID)
		}
		excluded[e.ParticipantID] = true
	}

	return nil
}
