package dataprocessing

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "spreadcli/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const fullHeader = "Date,Open,High,Low,Close,Volume\n"

// fullRow builds a six-column data row around a date, close and volume.
func fullRow(date string, close, volume string) string {
	return date + "," + close + "," + close + "," + close + "," + close + "," + volume + "\n"
}

func TestParseSeriesFile(t *testing.T) {
	t.Run("standard header", func(t *testing.T) {
		path := writeCSV(t, "series.csv",
			fullHeader+
				"2025-03-03,1.00,1.05,0.99,1.02,1500\n"+
				"2025-03-04,1.02,1.06,1.01,1.04,1800\n")

		points, err := ParseSeriesFile(path, testLogger())
		require.NoError(t, err)
		require.Len(t, points, 2)

		assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), points[0].Timestamp)
		assert.InDelta(t, 1.00, points[0].Open, 1e-9)
		assert.InDelta(t, 1.05, points[0].High, 1e-9)
		assert.InDelta(t, 0.99, points[0].Low, 1e-9)
		assert.InDelta(t, 1.02, points[0].Close, 1e-9)
		assert.InDelta(t, 1500, points[0].Volume, 1e-9)
	})

	t.Run("headers match case-insensitively with aliases", func(t *testing.T) {
		path := writeCSV(t, "series.csv",
			" TIMESTAMP , OPEN , High Price , low , close price ,VOL\n"+
				"2025-03-03,1.00,1.05,0.99,1.02,100\n")

		points, err := ParseSeriesFile(path, testLogger())
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.InDelta(t, 1.02, points[0].Close, 1e-9)
		assert.InDelta(t, 100, points[0].Volume, 1e-9)
	})

	t.Run("missing required columns name every one", func(t *testing.T) {
		path := writeCSV(t, "series.csv", "Symbol,Open\nABC,1.0\n")

		_, err := ParseSeriesFile(path, testLogger())
		require.Error(t, err)

		var schemaErr *apperrors.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.ElementsMatch(t, []string{"date", "high", "low", "close", "volume"},
			schemaErr.MissingColumns)
	})

	t.Run("volume-less file is rejected, not zero-filled", func(t *testing.T) {
		path := writeCSV(t, "series.csv",
			"datetime,close\n"+
				"2025-03-03,1.00\n"+
				"2025-03-04,1.01\n")

		_, err := ParseSeriesFile(path, testLogger())
		require.Error(t, err)

		var schemaErr *apperrors.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.ElementsMatch(t, []string{"open", "high", "low", "volume"},
			schemaErr.MissingColumns)
	})

	t.Run("bad rows are skipped, not fatal", func(t *testing.T) {
		path := writeCSV(t, "series.csv",
			fullHeader+
				fullRow("2025-03-03", "1.00", "100")+
				fullRow("not-a-date", "1.01", "100")+
				fullRow("2025-03-05", "", "100")+
				fullRow("2025-03-06", "1.03", "100"))

		points, err := ParseSeriesFile(path, testLogger())
		require.NoError(t, err)
		assert.Len(t, points, 2)
	})

	t.Run("rows are sorted by timestamp", func(t *testing.T) {
		path := writeCSV(t, "series.csv",
			fullHeader+
				fullRow("2025-03-05", "1.05", "100")+
				fullRow("2025-03-03", "1.03", "100")+
				fullRow("2025-03-04", "1.04", "100"))

		points, err := ParseSeriesFile(path, testLogger())
		require.NoError(t, err)
		require.Len(t, points, 3)
		assert.True(t, points[0].Timestamp.Before(points[1].Timestamp))
		assert.True(t, points[1].Timestamp.Before(points[2].Timestamp))
	})

	t.Run("thousands separators in numbers", func(t *testing.T) {
		path := writeCSV(t, "series.csv",
			fullHeader+
				"2025-03-03,\"1,020.50\",\"1,020.50\",\"1,020.50\",\"1,020.50\",\"2,500,000\"\n")

		points, err := ParseSeriesFile(path, testLogger())
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.InDelta(t, 1020.50, points[0].Close, 1e-9)
		assert.InDelta(t, 2500000, points[0].Volume, 1e-9)
	})

	t.Run("alternate date layouts", func(t *testing.T) {
		path := writeCSV(t, "series.csv",
			fullHeader+
				fullRow("2025/03/03", "1.00", "100")+
				fullRow("03/04/2025", "1.01", "100"))

		points, err := ParseSeriesFile(path, testLogger())
		require.NoError(t, err)
		assert.Len(t, points, 2)
	})

	t.Run("blank lines are ignored", func(t *testing.T) {
		path := writeCSV(t, "series.csv",
			fullHeader+
				fullRow("2025-03-03", "1.00", "100")+
				",,,,,\n"+
				fullRow("2025-03-04", "1.01", "100"))

		points, err := ParseSeriesFile(path, testLogger())
		require.NoError(t, err)
		assert.Len(t, points, 2)
	})

	t.Run("all rows bad is an error", func(t *testing.T) {
		path := writeCSV(t, "series.csv", fullHeader+fullRow("nope", "abc", "x"))
		_, err := ParseSeriesFile(path, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no usable data rows")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseSeriesFile(filepath.Join(t.TempDir(), "absent.csv"), testLogger())
		require.Error(t, err)
	})
}

func TestLoadSeriesPair(t *testing.T) {
	t.Run("loads both files", func(t *testing.T) {
		p1 := writeCSV(t, "a.csv", fullHeader+fullRow("2025-03-03", "1.00", "100"))
		p2 := writeCSV(t, "b.csv", fullHeader+fullRow("2025-03-03", "0.90", "100"))

		s1, s2, err := LoadSeriesPair(context.Background(), p1, p2, testLogger())
		require.NoError(t, err)
		assert.Len(t, s1, 1)
		assert.Len(t, s2, 1)
	})

	t.Run("one bad file fails the pair", func(t *testing.T) {
		p1 := writeCSV(t, "a.csv", fullHeader+fullRow("2025-03-03", "1.00", "100"))
		p2 := filepath.Join(t.TempDir(), "absent.csv")

		_, _, err := LoadSeriesPair(context.Background(), p1, p2, testLogger())
		require.Error(t, err)
	})
}
