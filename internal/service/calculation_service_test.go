package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/nbang/pkg/api"
)

func TestCalculate(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token := env.register(t, "alice@example.com")
	g := env.createGathering(t, token, "A", "B", "C", "D")

	// Two payers with mixed exclusions.
	env.createRound(t, token, g, "Dinner", "100000", 0)
	env.createRound(t, token, g, "Drinks", "50000", 3, 2)
	env.createRound(t, token, g, "Taxi", "30000", 0, 0, 1)

	resp, err := env.calculation.Calculate(ctx, authed(token, &api.CalculateRequest{GatheringID: g.ID}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	calc := resp.Msg.Calculation

	expectAmount(t, "total", "180000", calc.TotalAmount)
	if calc.GatheringName != "Jeju trip" {
		t.Errorf("gathering name: expected 'Jeju trip', got '%s'", calc.GatheringName)
	}
	if len(calc.Balances) != 4 {
		t.Fatalf("balances: expected 4, got %d", len(calc.Balances))
	}

	// Dinner: 25000 each. Drinks: 16666.67 each for A, B, D. Taxi: 15000 each for C, D.
	want := []struct {
		name, paid, owed, net string
	}{
		{"A", "130000", "41666.67", "88333.33"},
		{"B", "0", "41666.67", "-41666.67"},
		{"C", "0", "40000", "-40000"},
		{"D", "50000", "56666.67", "-6666.67"},
	}
	for i, w := range want {
		b := calc.Balances[i]
		if b.Name != w.name {
			t.Errorf("balance %d: expected %s, got %s", i, w.name, b.Name)
		}
		expectAmount(t, w.name+" paid", w.paid, b.TotalPaid)
		expectAmount(t, w.name+" owed", w.owed, b.TotalOwed)
		expectAmount(t, w.name+" net", w.net, b.NetBalance)
	}

	wantDebts := []struct {
		from, to, amount string
	}{
		{"B", "A", "41667"},
		{"C", "A", "40000"},
		{"D", "A", "6667"},
	}
	if len(calc.Debts) != len(wantDebts) {
		t.Fatalf("debts: expected %d, got %d: %+v", len(wantDebts), len(calc.Debts), calc.Debts)
	}
	for i, w := range wantDebts {
		d := calc.Debts[i]
		if d.From != w.from || d.To != w.to {
			t.Errorf("debt %d: expected %s->%s, got %s->%s", i, w.from, w.to, d.From, d.To)
		}
		expectAmount(t, "debt amount", w.amount, d.Amount)
	}

	expected := `
# HELP nbang_settlements_total Total number of settlements calculated
# TYPE nbang_settlements_total counter
nbang_settlements_total 1
`
	if err := testutil.GatherAndCompare(env.metrics.Registry(), strings.NewReader(expected), "nbang_settlements_total"); err != nil {
		t.Errorf("settlements metric: %v", err)
	}
}

func TestCalculateEmptyGathering(t *testing.T) {
	env := setupTestServer(t)
	token := env.register(t, "alice@example.com")
	g := env.createGathering(t, token, "A", "B")

	resp, err := env.calculation.Calculate(context.Background(), authed(token, &api.CalculateRequest{GatheringID: g.ID}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	calc := resp.Msg.Calculation
	expectAmount(t, "total", "0", calc.TotalAmount)
	if len(calc.Balances) != 2 {
		t.Errorf("balances: expected 2, got %d", len(calc.Balances))
	}
	if calc.Debts == nil || len(calc.Debts) != 0 {
		t.Errorf("debts: expected empty list, got %+v", calc.Debts)
	}
}

func TestCalculateAccess(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	bob := env.register(t, "bob@example.com")
	g := env.createGathering(t, alice, "A", "B")

	_, err := env.calculation.Calculate(ctx, authed("", &api.CalculateRequest{GatheringID: g.ID}))
	expectCode(t, err, connect.CodeUnauthenticated)

	_, err = env.calculation.Calculate(ctx, authed(bob, &api.CalculateRequest{GatheringID: g.ID}))
	expectCode(t, err, connect.CodePermissionDenied)

	_, err = env.calculation.Calculate(ctx, authed(alice, &api.CalculateRequest{GatheringID: "missing"}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = env.calculation.CreateShareLink(ctx, authed(bob, &api.CreateShareLinkRequest{GatheringID: g.ID}))
	expectCode(t, err, connect.CodePermissionDenied)

	expected := `
# HELP nbang_rpc_requests_total Total number of RPC calls by procedure and result code
# TYPE nbang_rpc_requests_total counter
nbang_rpc_requests_total{code="not_found",procedure="/nbang.v1.CalculationService/Calculate"} 1
nbang_rpc_requests_total{code="permission_denied",procedure="/nbang.v1.CalculationService/Calculate"} 1
nbang_rpc_requests_total{code="permission_denied",procedure="/nbang.v1.CalculationService/CreateShareLink"} 1
nbang_rpc_requests_total{code="unauthenticated",procedure="/nbang.v1.CalculationService/Calculate"} 1
`
	if err := testutil.GatherAndCompare(env.metrics.Registry(), strings.NewReader(expected), "nbang_rpc_requests_total"); err != nil {
		t.Errorf("rpc metrics: %v", err)
	}
}

func TestShareLinks(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token := env.register(t, "alice@example.com")
	g := env.createGathering(t, token, "A", "B")
	env.createRound(t, token, g, "Lunch", "20000", 0)

	linkResp, err := env.calculation.CreateShareLink(ctx, authed(token, &api.CreateShareLinkRequest{GatheringID: g.ID}))
	if err != nil {
		t.Fatalf("CreateShareLink failed: %v", err)
	}
	if linkResp.Msg.Token == "" {
		t.Fatal("expected share token")
	}
	if linkResp.Msg.ExpiresAt <= time.Now().Unix() {
		t.Errorf("expected expiry in the future, got %d", linkResp.Msg.ExpiresAt)
	}

	// No Authorization header: shared settlements are public.
	shared, err := env.calculation.GetSharedSettlement(ctx, connect.NewRequest(&api.GetSharedSettlementRequest{
		Token: linkResp.Msg.Token,
	}))
	if err != nil {
		t.Fatalf("GetSharedSettlement failed: %v", err)
	}
	if shared.Msg.GatheringName != "Jeju trip" || shared.Msg.GatheringType != "TRAVEL" {
		t.Errorf("unexpected gathering: %s (%s)", shared.Msg.GatheringName, shared.Msg.GatheringType)
	}
	if len(shared.Msg.Rounds) != 1 || shared.Msg.Rounds[0].PayerName != "A" {
		t.Errorf("rounds: unexpected %+v", shared.Msg.Rounds)
	}
	if len(shared.Msg.Calculation.Debts) != 1 {
		t.Fatalf("debts: expected 1, got %d", len(shared.Msg.Calculation.Debts))
	}
	expectAmount(t, "debt", "10000", shared.Msg.Calculation.Debts[0].Amount)

	_, err = env.calculation.GetSharedSettlement(ctx, connect.NewRequest(&api.GetSharedSettlementRequest{Token: "unknown"}))
	expectCode(t, err, connect.CodeNotFound)

	env.calcService.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = env.calculation.GetSharedSettlement(ctx, connect.NewRequest(&api.GetSharedSettlementRequest{
		Token: linkResp.Msg.Token,
	}))
	expectCode(t, err, connect.CodeFailedPrecondition)
}
