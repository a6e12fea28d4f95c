package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	burnSamplesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flarepie_burn_samples_total",
			Help: "Total number of burn samples produced.",
		},
		[]string{"propellant"},
	)

	burnRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flarepie_burn_runs_total",
			Help: "Total number of burn runs by outcome.",
		},
		[]string{"propellant", "outcome"},
	)

	thrustNewtons = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flarepie_thrust_newtons",
			Help: "Instantaneous thrust of the latest sample.",
		},
		[]string{"engine"},
	)

	propellantRemainingKg = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flarepie_propellant_remaining_kg",
			Help: "Remaining propellant after the latest sample.",
		},
		[]string{"engine"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flarepie_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flarepie_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

// Run outcomes.
const (
	OutcomeDepleted = "depleted"
	OutcomeAborted  = "aborted"
	OutcomeFailed   = "failed"
)

func init() {
	prometheus.MustRegister(burnSamplesTotal)
	prometheus.MustRegister(burnRunsTotal)
	prometheus.MustRegister(thrustNewtons)
	prometheus.MustRegister(propellantRemainingKg)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
}

// ObserveSample records one burn sample.
func ObserveSample(engine, propellant string, thrust, remaining float64) {
	burnSamplesTotal.WithLabelValues(propellant).Inc()
	thrustNewtons.WithLabelValues(engine).Set(thrust)
	propellantRemainingKg.WithLabelValues(engine).Set(remaining)
}

// ObserveRun records the end of a run.
func ObserveRun(propellant, outcome string) {
	burnRunsTotal.WithLabelValues(propellant, outcome).Inc()
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// knownRoutes keeps the path label bounded.
var knownRoutes = map[string]bool{
	"/":        true,
	"/status":  true,
	"/metrics": true,
}

func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		path := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(duration)
	})
}
