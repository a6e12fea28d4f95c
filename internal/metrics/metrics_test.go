package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/status", "/status"},
		{"/metrics", "/metrics"},
		{"/wp-admin", "other"},
		{"/status/extra", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizeRoute(tt.path); got != tt.want {
				t.Errorf("normalizeRoute(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestObserveSample(t *testing.T) {
	before := testutil.ToFloat64(burnSamplesTotal.WithLabelValues("SRF"))
	ObserveSample("candy", "SRF", 1234, 5)
	ObserveSample("candy", "SRF", 1234, 0)
	if got := testutil.ToFloat64(burnSamplesTotal.WithLabelValues("SRF")); got != before+2 {
		t.Fatalf("samples = %v, want %v", got, before+2)
	}
	if got := testutil.ToFloat64(thrustNewtons.WithLabelValues("candy")); got != 1234 {
		t.Fatalf("thrust gauge = %v", got)
	}
	if got := testutil.ToFloat64(propellantRemainingKg.WithLabelValues("candy")); got != 0 {
		t.Fatalf("remaining gauge = %v", got)
	}
}

func TestObserveRun(t *testing.T) {
	before := testutil.ToFloat64(burnRunsTotal.WithLabelValues("LH2", OutcomeAborted))
	ObserveRun("LH2", OutcomeAborted)
	if got := testutil.ToFloat64(burnRunsTotal.WithLabelValues("LH2", OutcomeAborted)); got != before+1 {
		t.Fatalf("runs = %v", got)
	}
}

func TestMiddlewareCountsRequests(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/status", http.MethodGet, "418"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/status", nil))
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/status", http.MethodGet, "418")); got != before+1 {
		t.Fatalf("requests = %v, want %v", got, before+1)
	}
}
