package infrastructure

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecorder(t *testing.T) {
	m := NewMetricsRecorder()

	m.RecordRun("success", 0.25)
	m.RecordRun("success", 0.50)
	m.RecordRun("error", 1.00)
	m.RecordRowsParsed("series1", 120)
	m.RecordRowsParsed("series2", 118)
	m.RecordOutliers(3)
	m.RecordRegimeSize("raw", 100)
	m.RecordRegimeSize("valid", 96)
	m.RecordRegimeSize("valid", 94)

	assert.InDelta(t, 2, testutil.ToFloat64(m.runsTotal.WithLabelValues("success")), 1e-12)
	assert.InDelta(t, 1, testutil.ToFloat64(m.runsTotal.WithLabelValues("error")), 1e-12)
	assert.InDelta(t, 120, testutil.ToFloat64(m.rowsParsed.WithLabelValues("series1")), 1e-12)
	assert.InDelta(t, 118, testutil.ToFloat64(m.rowsParsed.WithLabelValues("series2")), 1e-12)
	assert.InDelta(t, 3, testutil.ToFloat64(m.outliersTotal), 1e-12)
	assert.InDelta(t, 100, testutil.ToFloat64(m.regimeSize.WithLabelValues("raw")), 1e-12)
	// Gauges keep the last value, they do not accumulate.
	assert.InDelta(t, 94, testutil.ToFloat64(m.regimeSize.WithLabelValues("valid")), 1e-12)
}
