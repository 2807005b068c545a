package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRPC(t *testing.T) {
	m := New()

	m.ObserveRPC("/nbang.v1.CalculationService/Calculate", "ok", 0.01)
	m.ObserveRPC("/nbang.v1.CalculationService/Calculate", "ok", 0.02)
	m.ObserveRPC("/nbang.v1.CalculationService/Calculate", "not_found", 0.01)

	got := testutil.ToFloat64(m.rpcRequests.WithLabelValues("/nbang.v1.CalculationService/Calculate", "ok"))
	if got != 2 {
		t.Errorf("ok calls: expected 2, got %v", got)
	}
	got = testutil.ToFloat64(m.rpcRequests.WithLabelValues("/nbang.v1.CalculationService/Calculate", "not_found"))
	if got != 1 {
		t.Errorf("not_found calls: expected 1, got %v", got)
	}
}

func TestObserveSettlement(t *testing.T) {
	m := New()

	m.ObserveSettlement(3)
	m.ObserveSettlement(0)

	if got := testutil.ToFloat64(m.settlements); got != 2 {
		t.Errorf("settlements: expected 2, got %v", got)
	}
	if n := testutil.CollectAndCount(m.transfers); n != 1 {
		t.Errorf("transfers histogram: expected 1 series, got %d", n)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSettlement(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"nbang_settlements_total 1", "nbang_settlement_transfers_count 1", "go_goroutines"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("expected exposition to contain %q", name)
		}
	}
}
