package spread

import (
	"log/slog"
	"math"
	"sort"
)

// OutlierSummary reports the result of the causal outlier classification.
type OutlierSummary struct {
	WarmupRows  int `json:"warmup_rows"`
	OutlierRows int `json:"outlier_rows"`
	// FinalThreshold is the tick threshold in effect at the last row, useful
	// for diagnostics.
	FinalThreshold float64 `json:"final_threshold"`
}

// ClassifyOutliers flags warm-up rows and statistical outliers in place.
//
// The classification is strictly causal: each row's verdict depends only on
// rows up to and including it. An expanding-window median of the tick move
// and an expanding-window MAD of the move from that running median are
// maintained; both are undefined until MinExpandingWindow rows have been
// seen, and those rows are warm-up. The outlier threshold is
// max(OutlierMADThreshold x scaled MAD, MinOutlierTicks), where the MAD is
// scaled by 1.4826 to approximate a standard deviation. A row is an outlier
// when its move is undefined or deviates from the running median by more
// than the threshold; warm-up rows are never outliers.
func ClassifyOutliers(bars []Bar, p Params, logger *slog.Logger) OutlierSummary {
	if logger == nil {
		logger = slog.Default()
	}

	var summary OutlierSummary
	var window []float64 // observed tick moves, order of arrival

	for i := range bars {
		if bars[i].HasMove {
			window = append(window, float64(bars[i].TickMove))
		}

		// Warm-up rows: fewer rows seen than the expanding window needs.
		if i+1 < p.MinExpandingWindow {
			bars[i].IsWarmup = true
			bars[i].IsOutlier = false
			summary.WarmupRows++
			continue
		}
		if len(window) == 0 {
			// Degenerate series with no defined move at all.
			bars[i].IsWarmup = true
			bars[i].IsOutlier = false
			summary.WarmupRows++
			continue
		}

		med := median(window)
		mad := medianAbsDeviation(window, med)
		threshold := math.Max(p.OutlierMADThreshold*madConsistency*mad, float64(p.MinOutlierTicks))
		summary.FinalThreshold = threshold

		if !bars[i].HasMove {
			bars[i].IsOutlier = true
		} else {
			bars[i].IsOutlier = math.Abs(float64(bars[i].TickMove)-med) > threshold
		}
		if bars[i].IsOutlier {
			summary.OutlierRows++
		}
	}

	if summary.OutlierRows > 0 {
		logger.Warn("outliers flagged by expanding MAD",
			slog.Int("count", summary.OutlierRows),
			slog.Float64("final_threshold_ticks", summary.FinalThreshold))
	}
	if summary.WarmupRows > 0 {
		logger.Info("warm-up rows excluded from filtered statistics",
			slog.Int("count", summary.WarmupRows))
	}

	return summary
}

// median returns the median of values. The input is not modified.
func median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// medianAbsDeviation returns the median absolute deviation of values from
// center.
func medianAbsDeviation(values []float64, center float64) float64 {
	devs := make([]float64, len(values))
	for i, v := range values {
		devs[i] = math.Abs(v - center)
	}
	return median(devs)
}
