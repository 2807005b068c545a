package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/nbang/internal/auth"
	"github.com/mmynk/nbang/internal/metrics"
	"github.com/mmynk/nbang/internal/middleware"
	"github.com/mmynk/nbang/internal/storage/sqlite"
	"github.com/mmynk/nbang/pkg/api"
	"github.com/mmynk/nbang/pkg/api/apiconnect"
)

type testEnv struct {
	auth        apiconnect.AuthServiceClient
	gatherings  apiconnect.GatheringServiceClient
	calculation apiconnect.CalculationServiceClient
	calcService *CalculationService
	metrics     *metrics.Metrics
}

// setupTestServer wires all three services behind the same interceptors as
// the server binary, backed by a temporary SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	m := metrics.New()

	authSvc := NewAuthService(authenticator, jwtManager, store)
	gatheringSvc := NewGatheringService(store)
	calcSvc := NewCalculationService(store, m, time.Hour)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc,
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	))
	mux.Handle(apiconnect.NewGatheringServiceHandler(gatheringSvc,
		connect.WithInterceptors(middleware.RequireAuth(jwtManager)),
	))
	mux.Handle(apiconnect.NewCalculationServiceHandler(calcSvc,
		connect.WithInterceptors(
			middleware.MetricsInterceptor(m),
			middleware.RequireAuth(jwtManager, apiconnect.CalculationServiceGetSharedSettlementProcedure),
		),
	))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		auth:        apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		gatherings:  apiconnect.NewGatheringServiceClient(http.DefaultClient, server.URL),
		calculation: apiconnect.NewCalculationServiceClient(http.DefaultClient, server.URL),
		calcService: calcSvc,
		metrics:     m,
	}
}

// register creates an account and returns its session token.
func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: email,
		Password:    "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp.Msg.Token
}

// createGathering creates a gathering with the given participants.
func (e *testEnv) createGathering(t *testing.T, token string, names ...string) *api.Gathering {
	t.Helper()
	resp, err := e.gatherings.CreateGathering(context.Background(), authed(token, &api.CreateGatheringRequest{
		Name:             "Jeju trip",
		Type:             "travel",
		StartDate:        "2026-05-01",
		EndDate:          "2026-05-03",
		ParticipantNames: names,
	}))
	if err != nil {
		t.Fatalf("CreateGathering failed: %v", err)
	}
	return resp.Msg.Gathering
}

// createRound records a round paid by payer, excluding the given participants.
func (e *testEnv) createRound(t *testing.T, token string, g *api.Gathering, title, amount string, payer int, excluded ...int) *api.Round {
	t.Helper()
	req := &api.CreateRoundRequest{
		GatheringID: g.ID,
		Title:       title,
		Amount:      decimal.RequireFromString(amount),
		PayerID:     g.Participants[payer].ID,
	}
	for _, i := range excluded {
		req.Exclusions = append(req.Exclusions, &api.Exclusion{ParticipantID: g.Participants[i].ID})
	}
	resp, err := e.gatherings.CreateRound(context.Background(), authed(token, req))
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	return resp.Msg.Round
}

func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected code %v, got %v (%v)", want, got, err)
	}
}

func expectAmount(t *testing.T, field string, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %s", field, want, got)
	}
}
