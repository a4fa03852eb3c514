package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRegistryIsolated(t *testing.T) {
	a := New()
	b := New()

	a.OrdersPlacedTotal.WithLabelValues("buy").Inc()
	a.OpenOrders.Set(3)

	if got := testutil.ToFloat64(a.OrdersPlacedTotal.WithLabelValues("buy")); got != 1 {
		t.Errorf("a orders_placed_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(b.OrdersPlacedTotal.WithLabelValues("buy")); got != 0 {
		t.Errorf("b orders_placed_total = %v, want 0", got)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := New()
	m.CancelMissesTotal.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "order_cancel_misses_total 1") {
		t.Errorf("metrics output missing cancel misses counter:\n%s", rec.Body.String())
	}
}
