package exporter

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"spreadcli/internal/spread"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureResult(t *testing.T) *spread.Result {
	t.Helper()

	params := spread.DefaultParams()
	params.BootstrapIterations = 50
	params.BootstrapSeed = 1

	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	var s1, s2 []spread.SeriesPoint
	for i := 0; i < 30; i++ {
		ts := start.AddDate(0, 0, i)
		s1 = append(s1, spread.SeriesPoint{Timestamp: ts, Close: 1.0 + float64(i%3)*params.TickSize, Volume: 100})
		s2 = append(s2, spread.SeriesPoint{Timestamp: ts, Close: 0.5, Volume: 100})
	}

	calc, err := spread.NewCalculator(params, testLogger())
	require.NoError(t, err)
	result, err := calc.Calculate(context.Background(), s1, s2)
	require.NoError(t, err)
	return result
}

func TestExcelWriter(t *testing.T) {
	result := fixtureResult(t)
	path := filepath.Join(t.TempDir(), "report", "analysis.xlsx")

	writer := NewExcelWriter(testLogger())
	require.NoError(t, writer.Write(result, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	t.Run("contains every section sheet", func(t *testing.T) {
		sheets := f.GetSheetList()
		for _, want := range []string{"Summary", "Bars", "Probabilities", "Bootstrap", "Levels"} {
			assert.Contains(t, sheets, want)
		}
		assert.NotContains(t, sheets, "Sheet1")
	})

	t.Run("summary names the run", func(t *testing.T) {
		label, err := f.GetCellValue("Summary", "A1")
		require.NoError(t, err)
		assert.Equal(t, "Run ID", label)

		runID, err := f.GetCellValue("Summary", "B1")
		require.NoError(t, err)
		assert.Equal(t, result.Diagnostics.RunID, runID)
	})

	t.Run("bars sheet has one row per bar plus header", func(t *testing.T) {
		rows, err := f.GetRows("Bars")
		require.NoError(t, err)
		assert.Len(t, rows, len(result.Bars)+1)
	})

	t.Run("probabilities cover both regimes", func(t *testing.T) {
		rows, err := f.GetRows("Probabilities")
		require.NoError(t, err)
		assert.Len(t, rows, 1+len(result.Raw.Records)+len(result.Valid.Records))
	})
}

func TestExcelWriterNilResult(t *testing.T) {
	writer := NewExcelWriter(testLogger())
	err := writer.Write(nil, filepath.Join(t.TempDir(), "out.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no result to export")
}
