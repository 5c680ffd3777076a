// Package metrics exposes prometheus collectors for the HTTP server and case intake.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "casetrack"

// Collector is a prometheus.Collector for request and case intake metrics.
type Collector struct {
	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	casesCreated      prometheus.Counter
	imagesStored      prometheus.Counter
	ingestionFailures *prometheus.CounterVec
}

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "The number of HTTP requests served.",
			}, []string{"method", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "The time taken to serve HTTP requests.",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			}, []string{"method"},
		),
		casesCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "cases_created_total",
				Help:      "The number of cases persisted.",
			},
		),
		imagesStored: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "case_images_stored_total",
				Help:      "The number of case images written to blob storage.",
			},
		),
		ingestionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "case_ingestion_failures_total",
				Help:      "The number of rejected or failed case submissions.",
			}, []string{"reason"},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.requests.Describe(ch)
	c.requestDuration.Describe(ch)
	c.casesCreated.Describe(ch)
	c.imagesStored.Describe(ch)
	c.ingestionFailures.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.requests.Collect(ch)
	c.requestDuration.Collect(ch)
	c.casesCreated.Collect(ch)
	c.imagesStored.Collect(ch)
	c.ingestionFailures.Collect(ch)
}

func (c *Collector) ObserveRequest(method string, code int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	c.requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// CaseCreated records one committed case with its image count.
func (c *Collector) CaseCreated(images int) {
	c.casesCreated.Inc()
	c.imagesStored.Add(float64(images))
}

// IngestionFailed records a rejected ("validation") or failed ("error") submission.
func (c *Collector) IngestionFailed(reason string) {
	c.ingestionFailures.WithLabelValues(reason).Inc()
}

// Handler serves the collector together with the Go runtime and process collectors.
func Handler(c *Collector) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		c,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
