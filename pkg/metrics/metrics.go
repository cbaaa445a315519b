package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_login_attempts_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	sessionsIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_sessions_issued_total",
			Help: "Sessions handed out at login, split into reused and newly minted.",
		},
		[]string{"kind"},
	)

	sessionValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_session_validations_total",
			Help: "Bearer token validations by result.",
		},
		[]string{"result"},
	)

	sessionsReaped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "school_sessions_reaped_total",
		Help: "Sessions removed by the reaper.",
	})

	reaperRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_reaper_runs_total",
			Help: "Reaper sweeps by result.",
		},
		[]string{"result"},
	)

	authorizationDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_authorization_decisions_total",
			Help: "Permission checks by decision.",
		},
		[]string{"decision"},
	)

	banActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_ban_actions_total",
			Help: "Ban and unban requests by outcome.",
		},
		[]string{"action", "outcome"},
	)

	initOnce sync.Once
)

// Init registers every collector in the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpInFlight, httpRequestsTotal, httpRequestDuration,
			loginAttempts, sessionsIssued, sessionValidations,
			sessionsReaped, reaperRuns, authorizationDecisions, banActions,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument records RPS, latency and in-flight requests per chi route pattern.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		defer httpInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := strconv.Itoa(sw.code)

		httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

func LoginAttempt(outcome string) { loginAttempts.WithLabelValues(outcome).Inc() }

func SessionIssued(kind string) { sessionsIssued.WithLabelValues(kind).Inc() }

func SessionValidated(result string) { sessionValidations.WithLabelValues(result).Inc() }

func SessionsReaped(n int64) {
	reaperRuns.WithLabelValues("ok").Inc()
	if n > 0 {
		sessionsReaped.Add(float64(n))
	}
}

func ReaperFailed() { reaperRuns.WithLabelValues("error").Inc() }

func AuthorizationDecision(decision string) { authorizationDecisions.WithLabelValues(decision).Inc() }

func BanAction(action, outcome string) { banActions.WithLabelValues(action, outcome).Inc() }

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
