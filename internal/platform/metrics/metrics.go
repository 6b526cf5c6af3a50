package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder agrupa las métricas HTTP y de dominio del servicio.
// Cada Recorder tiene su propio registry: varios routers (tests) no chocan
// al registrar.
type Recorder struct {
	service  string
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	statusCategory *prometheus.CounterVec

	petitionTransitions *prometheus.CounterVec
	decisions           *prometheus.CounterVec
	notifyFailures      *prometheus.CounterVec
}

func New(service string) *Recorder {
	reg := prometheus.NewRegistry()

	m := &Recorder{
		service:  service,
		registry: reg,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		statusCategory: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"service", "category"},
		),
		petitionTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adoption_petition_transitions_total",
				Help: "Petition status changes by resulting status",
			},
			[]string{"service", "status"},
		),
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adoption_decisions_total",
				Help: "Recorded swipe decisions by kind",
			},
			[]string{"service", "kind"},
		),
		notifyFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notification_failures_total",
				Help: "Notifications that could not be delivered",
			},
			[]string{"service", "topic"},
		),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.statusCategory,
		m.petitionTransitions,
		m.decisions,
		m.notifyFailures,
	)
	return m
}

// Middleware registra cada request con el patrón de ruta de chi
// (no el path crudo) para no explotar la cardinalidad con IDs.
func (m *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := routePattern(r)
		statusStr := strconv.Itoa(status)

		m.requests.WithLabelValues(m.service, r.Method, path, statusStr).Inc()
		m.duration.WithLabelValues(m.service, r.Method, path, statusStr).Observe(time.Since(start).Seconds())
		if cat := category(status); cat != "" {
			m.statusCategory.WithLabelValues(m.service, cat).Inc()
		}
	})
}

// Handler expone el registry propio en formato Prometheus.
func (m *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Recorder) PetitionTransition(status string) {
	if m == nil {
		return
	}
	m.petitionTransitions.WithLabelValues(m.service, status).Inc()
}

func (m *Recorder) DecisionRecorded(kind string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(m.service, kind).Inc()
}

func (m *Recorder) NotificationFailed(topic string) {
	if m == nil {
		return
	}
	m.notifyFailures.WithLabelValues(m.service, topic).Inc()
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func category(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return ""
	}
}
