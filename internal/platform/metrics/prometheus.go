package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds custom Prometheus metrics.
type MetricsManager struct {
	Registry            *prometheus.Registry
	AdsCreatedTotal     prometheus.Counter
	AdImagesTotal       prometheus.Counter
	ClaimOutcomesTotal  *prometheus.CounterVec   // directory upsert results by outcome
	FeedDeliveriesTotal *prometheus.CounterVec   // snapshots applied per collection
	APIErrorsTotal      *prometheus.CounterVec   // errors by RPC method
	APILatency          *prometheus.HistogramVec // latency by RPC method
}

// NewMetricsManager initializes and registers custom Prometheus metrics on a
// dedicated registry. The service name becomes the metric namespace.
func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()
	serviceName = namespace(serviceName)

	adsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "ads_created_total",
		Help:      "Total number of ads created.",
	})
	adImagesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "ad_images_uploaded_total",
		Help:      "Total number of ad images uploaded.",
	})
	claimOutcomesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "directory_claim_outcomes_total",
		Help:      "Directory listing upsert results by outcome.",
	}, []string{"outcome"})
	feedDeliveriesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "feed_snapshots_total",
		Help:      "Snapshots delivered to feed sessions by collection.",
	}, []string{"collection"})
	apiErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "api_errors_total",
		Help:      "Total number of API errors by method.",
	}, []string{"method", "error_type"})
	apiLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "api_request_latency_seconds",
		Help:      "Latency of API requests by method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	registry.MustRegister(
		adsCreatedTotal,
		adImagesTotal,
		claimOutcomesTotal,
		feedDeliveriesTotal,
		apiErrorsTotal,
		apiLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:            registry,
		AdsCreatedTotal:     adsCreatedTotal,
		AdImagesTotal:       adImagesTotal,
		ClaimOutcomesTotal:  claimOutcomesTotal,
		FeedDeliveriesTotal: feedDeliveriesTotal,
		APIErrorsTotal:      apiErrorsTotal,
		APILatency:          apiLatency,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Nil-safe recorders so usecases can run without metrics wired.

func (m *MetricsManager) AdCreated() {
	if m != nil {
		m.AdsCreatedTotal.Inc()
	}
}

func (m *MetricsManager) ImagesUploaded(n int) {
	if m != nil && n > 0 {
		m.AdImagesTotal.Add(float64(n))
	}
}

func (m *MetricsManager) ClaimOutcome(outcome string) {
	if m != nil {
		m.ClaimOutcomesTotal.WithLabelValues(outcome).Inc()
	}
}

func (m *MetricsManager) FeedDelivered(collection string) {
	if m != nil {
		m.FeedDeliveriesTotal.WithLabelValues(collection).Inc()
	}
}

// namespace maps a service name such as "teststrip-marketplace" onto a valid
// metric name prefix.
func namespace(serviceName string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, serviceName)
}
