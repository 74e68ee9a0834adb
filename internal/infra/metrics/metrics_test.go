package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	m := New()
	m.DecisionRecorded("LIKE")
	m.DecisionRecorded("LIKE")
	m.DecisionRecorded("PASS")
	m.MatchCreated()

	if got := testutil.ToFloat64(m.decisions.WithLabelValues("LIKE")); got != 2 {
		t.Fatalf("unexpected like counter: got %v want 2", got)
	}
	if got := testutil.ToFloat64(m.matchesCreated); got != 1 {
		t.Fatalf("unexpected match counter: got %v want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.CooldownRejected()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "dechico_decisions_cooldown_rejected_total 1") {
		t.Fatalf("cooldown counter missing from exposition")
	}
}
