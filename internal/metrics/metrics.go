package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of scheduling runs. A nil *Metrics records nothing
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	runs            *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	groups          *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "labsched_runs_total",
		Help: "Total number of scheduling runs by outcome code and strategy",
	}, []string{"code", "strategy"})

	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "labsched_run_phase_duration_seconds",
		Help:    "Duration of each phase of a scheduling run",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	groups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "labsched_groups_total",
		Help: "Total number of groups processed, by whether they were assigned",
	}, []string{"status"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "labsched_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	registry.MustRegister(runs, runDuration, groups, requestDuration)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		runs:            runs,
		runDuration:     runDuration,
		groups:          groups,
		requestDuration: requestDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) ObserveRun(code int, strategy string, assigned, unassigned int) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(strconv.Itoa(code), strategy).Inc()
	m.groups.WithLabelValues("assigned").Add(float64(assigned))
	m.groups.WithLabelValues("unassigned").Add(float64(unassigned))
}

func (m *Metrics) ObservePhase(phase string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}
