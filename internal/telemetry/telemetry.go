// Package telemetry provides OpenTelemetry instrumentation for the
// enrichment service. It exports Prometheus metrics and a tracer.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "enrichment"

// Metrics holds all enrichment Prometheus metrics.
type Metrics struct {
	// Pipeline metrics
	MessagesEnriched   *prometheus.CounterVec
	MessagesFailed     *prometheus.CounterVec
	EnrichmentDuration prometheus.Histogram
	BatchSize          prometheus.Histogram

	// Extraction metrics
	LinksExtracted      prometheus.Counter
	ShortlinksRewritten prometheus.Counter

	// Collaborator metrics
	ClassifierFailures prometheus.Counter
	GeoQueries         *prometheus.CounterVec
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

func initMetrics() *Metrics {
	return &Metrics{
		MessagesEnriched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "messages_enriched_total",
			Help:      "Messages enriched, by source type.",
		}, []string{"source_type"}),
		MessagesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "messages_failed_total",
			Help:      "Messages that failed enrichment, by stage.",
		}, []string{"stage"}),
		EnrichmentDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "enrichment_duration_seconds",
			Help:      "End-to-end enrichment duration per message.",
			Buckets:   prometheus.DefBuckets,
		}),
		BatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "batch_size",
			Help:      "Messages per processed batch.",
			Buckets:   []float64{1, 10, 25, 50, 100, 250, 500},
		}),
		LinksExtracted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "links_extracted_total",
			Help:      "Links extracted from message text.",
		}),
		ShortlinksRewritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "shortlinks_rewritten_total",
			Help:      "Links replaced by shortlinks in emitted text.",
		}),
		ClassifierFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "classifier_failures_total",
			Help:      "Classifier collaborator calls that failed.",
		}),
		GeoQueries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "geo_queries_total",
			Help:      "Geo inference queries, by outcome (hit/miss).",
		}, []string{"outcome"}),
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}
