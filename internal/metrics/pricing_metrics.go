package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	FairLineConfidence = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fair_line_confidence",
		Help:      "Confidence of solved fair market lines",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	}, []string{"sport", "market"})

	CurveSourceTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "curve_source_total",
		Help:      "Total number of fair lines by the curve they were solved on",
	}, []string{"source"})

	SimulationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "monte_carlo_simulations_total",
		Help:      "Total number of Monte Carlo draws",
	})

	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "monte_carlo_duration_seconds",
		Help:      "Duration of Monte Carlo fair value runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// RecordFairLine records the confidence of a solved fair line and its curve source.
func RecordFairLine(sport, market, source string, confidence float64) {
	FairLineConfidence.WithLabelValues(sport, market).Observe(confidence)
	CurveSourceTotal.WithLabelValues(source).Inc()
}

// RecordSimulation records a Monte Carlo run.
func RecordSimulation(draws int, durationSeconds float64) {
	SimulationsTotal.Add(float64(draws))
	SimulationDuration.Observe(durationSeconds)
}
