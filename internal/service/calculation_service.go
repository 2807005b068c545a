package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/nbang/internal/calculator"
	"github.com/mmynk/nbang/internal/metrics"
	"github.com/mmynk/nbang/internal/models"
	"github.com/mmynk/nbang/internal/storage"
	"github.com/mmynk/nbang/pkg/api"
	"github.com/mmynk/nbang/pkg/api/apiconnect"
)

// DefaultShareLinkTTL is how long a share link stays valid unless configured otherwise.
const DefaultShareLinkTTL = 24 * time.Hour

// CalculationService settles gatherings and serves shared settlements.
type CalculationService struct {
	store    storage.Store
	metrics  *metrics.Metrics
	shareTTL time.Duration
	now      func() time.Time
}

var _ apiconnect.CalculationServiceHandler = (*CalculationService)(nil)

// NewCalculationService creates a CalculationService. m may be nil.
func NewCalculationService(store storage.Store, m *metrics.Metrics, shareTTL time.Duration) *CalculationService {
	if shareTTL <= 0 {
		shareTTL = DefaultShareLinkTTL
	}
	return &CalculationService{
		store:    store,
		metrics:  m,
		shareTTL: shareTTL,
		now:      time.Now,
	}
}

// Calculate computes balances and recommended transfers for a gathering.
func (s *CalculationService) Calculate(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	slog.Info("Calculate request received", "gathering_id", req.Msg.GatheringID)

	gathering, err := ownedGathering(ctx, s.store, req.Msg.GatheringID)
	if err != nil {
		return nil, err
	}

	calculation, _, err := s.settle(ctx, gathering)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.CalculateResponse{Calculation: calculation}), nil
}

// CreateShareLink issues a token that lets anyone read the gathering's
// settlement until it expires.
func (s *CalculationService) CreateShareLink(ctx context.Context, req *connect.Request[api.CreateShareLinkRequest]) (*connect.Response[api.CreateShareLinkResponse], error) {
	slog.Info("CreateShareLink request received", "gathering_id", req.Msg.GatheringID)

	gathering, err := ownedGathering(ctx, s.store, req.Msg.GatheringID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	link := &models.ShareLink{
		GatheringID: gathering.ID,
		ExpiresAt:   now.Add(s.shareTTL).Unix(),
		CreatedAt:   now.Unix(),
	}
	if err := s.store.CreateShareLink(ctx, link); err != nil {
		slog.Error("CreateShareLink failed", "gathering_id", gathering.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Share link created", "gathering_id", gathering.ID, "expires_at", link.ExpiresAt)

	return connect.NewResponse(&api.CreateShareLinkResponse{
		Token:     link.Token,
		ExpiresAt: link.ExpiresAt,
	}), nil
}

// GetSharedSettlement returns a gathering's settlement and rounds for a
// share token. It requires no authentication.
func (s *CalculationService) GetSharedSettlement(ctx context.Context, req *connect.Request[api.GetSharedSettlementRequest]) (*connect.Response[api.GetSharedSettlementResponse], error) {
	if req.Msg.Token == "" {
		return nil, invalidArgument("share token is required")
	}

	link, err := s.store.GetShareLink(ctx, req.Msg.Token)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("GetShareLink failed", "error", err)
		}
		return nil, storageError(err)
	}
	if link.IsExpired(s.now()) {
		slog.Info("Expired share link used", "gathering_id", link.GatheringID)
		return nil, connect.NewError(connect.CodeFailedPrecondition, errShareLinkExpired)
	}

	gathering, err := s.store.GetGathering(ctx, link.GatheringID)
	if err != nil {
		return nil, storageError(err)
	}

	calculation, rounds, err := s.settle(ctx, gathering)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetSharedSettlementResponse{
		GatheringName: gathering.Name,
		GatheringType: string(gathering.Type),
		Calculation:   calculation,
		Rounds:        toAPIRounds(rounds, gathering.Participants),
		ExpiresAt:     link.ExpiresAt,
	}), nil
}

// settle loads the gathering's rounds and runs the settlement core over them.
func (s *CalculationService) settle(ctx context.Context, gathering *models.Gathering) (*api.Calculation, []models.Round, error) {
	rounds, err := s.store.ListRounds(ctx, gathering.ID)
	if err != nil {
		slog.Error("Failed to list rounds", "gathering_id", gathering.ID, "error", err)
		return nil, nil, connect.NewError(connect.CodeInternal, err)
	}

	participants, calcRounds := toCalculatorInput(gathering.Participants, rounds)
	result := calculator.Settle(participants, calcRounds)

	if s.metrics != nil {
		s.metrics.ObserveSettlement(len(result.Debts))
	}
	slog.Info("Settlement calculated",
		"gathering_id", gathering.ID,
		"total", result.TotalAmount,
		"participants", len(participants),
		"rounds", len(calcRounds),
		"transfers", len(result.Debts),
	)

	return toAPICalculation(gathering, result), rounds, nil
}
