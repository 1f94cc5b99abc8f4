package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_started_total",
			Help: "Total number of conversations started",
		},
	)

	leadsConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_confirmed_total",
			Help: "Total number of leads confirmed and saved",
		},
	)

	leadsAwaitingConfirmation = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_confirmation_prompts_total",
			Help: "Total number of confirmation summaries sent to leads",
		},
	)

	leadsCompacted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_compacted_total",
			Help: "Total number of incomplete lead rows removed by compaction",
		},
	)

	agentErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_errors_total",
			Help: "Total number of agent gateway errors",
		},
		[]string{"kind"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		// Usa o padrão da rota (/conversation/{lead_id}) para não explodir a cardinalidade.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func RecordLeadStarted() {
	leadsStarted.Inc()
}

func RecordLeadConfirmed() {
	leadsConfirmed.Inc()
}

func RecordConfirmationPrompt() {
	leadsAwaitingConfirmation.Inc()
}

func RecordLeadsCompacted(n int) {
	leadsCompacted.Add(float64(n))
}

func RecordAgentError(kind string) {
	agentErrors.WithLabelValues(kind).Inc()
}
