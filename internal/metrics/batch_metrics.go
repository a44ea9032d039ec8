package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	BatchRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_runs_total",
		Help:      "Total number of batch pricing runs by trigger",
	}, []string{"trigger"})

	BatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_duration_seconds",
		Help:      "Duration of batch pricing runs in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})

	BatchMarketsFailed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "batch_markets_failed",
		Help:      "Number of markets that failed in the last batch",
	})
)

// RecordBatch records a completed batch run.
func RecordBatch(trigger string, failed int, durationSeconds float64) {
	BatchRunsTotal.WithLabelValues(trigger).Inc()
	BatchDuration.Observe(durationSeconds)
	BatchMarketsFailed.Set(float64(failed))
}
