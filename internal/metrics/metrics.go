package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/travelapp/travel-auth/internal/health"
)

var (
	// Auth flow metrics

	RegistrationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "travelauth",
		Name:      "registrations_total",
		Help:      "Registration attempts, by outcome.",
	}, []string{"outcome"})

	ConfirmationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "travelauth",
		Name:      "confirmations_total",
		Help:      "Email confirmation attempts, by outcome.",
	}, []string{"outcome"})

	ResendsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "travelauth",
		Name:      "resend_requests_total",
		Help:      "Confirmation resend requests received.",
	})

	EmailsDispatchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "travelauth",
		Name:      "emails_dispatched_total",
		Help:      "Confirmation email dispatch attempts, by outcome.",
	}, []string{"outcome"})

	// Janitor metrics

	JanitorPurgedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "travelauth",
		Name:      "janitor_purged_total",
		Help:      "Expired unconfirmed accounts removed by the janitor.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "travelauth",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "travelauth",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		RegistrationsTotal,
		ConfirmationsTotal,
		ResendsTotal,
		EmailsDispatchedTotal,
		JanitorPurgedTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus the liveness and readiness probes on the
// internal port.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, status int, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
