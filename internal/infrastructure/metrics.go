package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder exposes Prometheus metrics for analysis runs and input
// handling. Register it once per process; promauto registers the collectors
// on the default registry.
type MetricsRecorder struct {
	runsTotal     *prometheus.CounterVec
	rowsParsed    *prometheus.CounterVec
	outliersTotal prometheus.Counter
	regimeSize    *prometheus.GaugeVec
	runDuration   prometheus.Histogram
}

// NewMetricsRecorder creates the recorder and registers its collectors.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spreadcli_runs_total",
				Help: "Total number of analysis runs by outcome",
			},
			[]string{"outcome"},
		),
		rowsParsed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spreadcli_rows_parsed_total",
				Help: "Total number of input rows parsed per series",
			},
			[]string{"series"},
		),
		outliersTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "spreadcli_outlier_rows_total",
				Help: "Total number of rows flagged as outliers",
			},
		),
		regimeSize: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spreadcli_regime_rows",
				Help: "Row count of the last run per regime",
			},
			[]string{"regime"},
		),
		runDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spreadcli_run_duration_seconds",
				Help:    "Duration of analysis runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordRun records one analysis run with its outcome and duration.
func (m *MetricsRecorder) RecordRun(outcome string, seconds float64) {
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(seconds)
}

// RecordRowsParsed records parsed input rows for one series leg.
func (m *MetricsRecorder) RecordRowsParsed(series string, rows int) {
	m.rowsParsed.WithLabelValues(series).Add(float64(rows))
}

// RecordOutliers records outlier rows flagged during a run.
func (m *MetricsRecorder) RecordOutliers(count int) {
	m.outliersTotal.Add(float64(count))
}

// RecordRegimeSize records the row count of one regime after a run.
func (m *MetricsRecorder) RecordRegimeSize(regime string, rows int) {
	m.regimeSize.WithLabelValues(regime).Set(float64(rows))
}
