package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveEnrichment(t *testing.T) {
	m := New()
	m.ObserveEnrichment("fallback", "rate_limited")
	m.ObserveEnrichment("fallback", "rate_limited")
	m.ObserveEnrichment("ai", "")

	if got := testutil.ToFloat64(m.EnrichmentTotal.WithLabelValues("fallback", "rate_limited")); got != 2 {
		t.Fatalf("expected 2 fallback runs, got %v", got)
	}
	if got := testutil.ToFloat64(m.EnrichmentTotal.WithLabelValues("ai", "")); got != 1 {
		t.Fatalf("expected 1 ai run, got %v", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/v1/analytics", http.StatusOK, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `compforecast_http_requests_total{code="200",route="/api/v1/analytics"} 1`) {
		t.Fatalf("expected request counter in output:\n%s", rec.Body.String())
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveEnrichment("ai", "")
	m.ObserveRequest("/", http.StatusOK, time.Second)
	if m.Handler() == nil {
		t.Fatal("expected a handler")
	}
}
