package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
)

type Recorder struct {
	reg       *prometheus.Registry
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	queries   *prometheus.CounterVec
	predicted *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campaignkpi",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "campaignkpi",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campaignkpi",
			Name:      "queries_total",
			Help:      "KPI queries by outcome.",
		}, []string{"outcome"}),
		predicted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campaignkpi",
			Name:      "predictions_total",
			Help:      "Outcome predictions by result.",
		}, []string{"outcome"}),
	}
	r.reg.MustRegister(
		r.requests, r.latency, r.queries, r.predicted,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ObserveRequest(method, route string, status int, d time.Duration) {
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (r *Recorder) Query(outcome string) { r.queries.WithLabelValues(outcome).Inc() }

func (r *Recorder) Prediction(outcome string) { r.predicted.WithLabelValues(outcome).Inc() }

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
