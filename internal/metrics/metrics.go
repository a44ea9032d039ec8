// Package metrics provides the Prometheus registry for the pricing engine.
package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "propsage"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	MarketsPricedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "markets_priced_total",
		Help:      "Total number of markets priced by outcome",
	}, []string{"sport", "status"})
	DevigFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "devig_fallbacks_total",
		Help:      "Total number of Shin devig solves that fell back to multiplicative",
	})
	EdgesFoundTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "edges_found_total",
		Help:      "Total number of actionable edges found by side",
	}, []string{"side"})
)

// Gauge metrics
var (
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_hit_ratio",
		Help:      "Hit ratio of the pricing result cache",
	})
	MarketsInSnapshot = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "markets_in_snapshot",
		Help:      "Number of markets in the most recently loaded snapshot",
	})
)

// Histogram metrics
var (
	PricingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pricing_duration_seconds",
		Help:      "Duration of single market pricing in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(MarketsPricedTotal)
		registry.MustRegister(DevigFallbacksTotal)
		registry.MustRegister(EdgesFoundTotal)

		registry.MustRegister(CacheHitRatio)
		registry.MustRegister(MarketsInSnapshot)

		registry.MustRegister(PricingDuration)

		// pricing_metrics.go
		registry.MustRegister(FairLineConfidence)
		registry.MustRegister(CurveSourceTotal)
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(SimulationDuration)

		// batch_metrics.go
		registry.MustRegister(BatchRunsTotal)
		registry.MustRegister(BatchDuration)
		registry.MustRegister(BatchMarketsFailed)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// WriteTextfile writes every registered metric to path in the text exposition format,
// for pickup by a node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, GetRegistry()); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// RecordMarketPriced records one priced market and how long it took.
func RecordMarketPriced(sport, status string, durationSeconds float64) {
	MarketsPricedTotal.WithLabelValues(sport, status).Inc()
	PricingDuration.Observe(durationSeconds)
}

// RecordDevigFallback records a Shin solve that fell back to multiplicative.
func RecordDevigFallback() {
	DevigFallbacksTotal.Inc()
}

// RecordEdgeFound records an actionable edge.
func RecordEdgeFound(side string) {
	EdgesFoundTotal.WithLabelValues(side).Inc()
}

// UpdateCacheHitRatio sets the cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	CacheHitRatio.Set(ratio)
}

// UpdateMarketsInSnapshot sets the snapshot size gauge.
func UpdateMarketsInSnapshot(count int) {
	MarketsInSnapshot.Set(float64(count))
}
