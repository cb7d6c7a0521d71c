package spread

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"
)

// AlignStats reports what the aligner did to the two input series.
type AlignStats struct {
	Series1Rows    int `json:"series1_rows"`
	Series2Rows    int `json:"series2_rows"`
	Series1Dedup   int `json:"series1_dedup"`
	Series2Dedup   int `json:"series2_dedup"`
	DroppedDates   int `json:"dropped_dates"`
	MergedRows     int `json:"merged_rows"`
	GapExcluded    int `json:"gap_excluded"`
	ExcessiveDedup bool `json:"excessive_dedup"`

	FirstDate time.Time `json:"first_date"`
	LastDate  time.Time `json:"last_date"`
}

// dedupThreshold is the fraction of a series the daily consolidation may
// remove before the input is considered suspiciously intraday.
const dedupThreshold = 0.20

// AlignSeries merges two daily price series into the spread series.
//
// Each series is sorted by timestamp, collapsed to one row per calendar day
// keeping the last timestamp of the day, and inner-joined on the date. The
// merged bars carry the spread close, the min-of-legs spread volume, the
// tick-quantized move, the calendar gap, the adjacency flag, and a RowID
// assigned over the full merged series before any filtering.
func AlignSeries(s1, s2 []SeriesPoint, p Params, logger *slog.Logger) ([]Bar, AlignStats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	stats := AlignStats{Series1Rows: len(s1), Series2Rows: len(s2)}

	d1 := collapseDaily(s1)
	d2 := collapseDaily(s2)
	stats.Series1Dedup = len(s1) - len(d1)
	stats.Series2Dedup = len(s2) - len(d2)

	if exceedsDedupThreshold(stats.Series1Dedup, len(s1)) || exceedsDedupThreshold(stats.Series2Dedup, len(s2)) {
		stats.ExcessiveDedup = true
		logger.Warn("daily consolidation removed over 20% of a series; check inputs for intraday granularity",
			slog.Int("series1_removed", stats.Series1Dedup),
			slog.Int("series2_removed", stats.Series2Dedup))
	} else if stats.Series1Dedup > 0 || stats.Series2Dedup > 0 {
		logger.Info("consolidated intraday rows to daily close",
			slog.Int("series1_removed", stats.Series1Dedup),
			slog.Int("series2_removed", stats.Series2Dedup))
	}

	bars := joinOnDate(d1, d2)
	if len(bars) == 0 {
		return nil, stats, fmt.Errorf("no overlapping dates between the two series")
	}

	longer := len(d1)
	if len(d2) > longer {
		longer = len(d2)
	}
	stats.DroppedDates = longer - len(bars)
	if stats.DroppedDates > 0 {
		logger.Warn("records lost to non-overlapping dates", slog.Int("dropped", stats.DroppedDates))
	}

	maxGap := p.MaxDaysGap()
	for i := range bars {
		bars[i].RowID = i
		bars[i].SpreadClose = bars[i].Close1 - bars[i].Close2
		bars[i].SpreadVolume = math.Min(bars[i].Volume1, bars[i].Volume2)

		if i == 0 {
			// No prior bar: move undefined, consecutive by convention.
			bars[i].IsConsecutive = true
			continue
		}

		prev := bars[i-1]
		bars[i].PriceChange = bars[i].SpreadClose - prev.SpreadClose
		bars[i].TickMove = int(math.Round(bars[i].PriceChange / p.TickSize))
		bars[i].AbsTickMove = absInt(bars[i].TickMove)
		bars[i].HasMove = true
		bars[i].DaysGap = calendarDaysBetween(prev.Date, bars[i].Date)
		bars[i].IsConsecutive = bars[i].DaysGap <= maxGap
	}

	for _, b := range bars {
		if !b.IsConsecutive && b.HasMove {
			stats.GapExcluded++
		}
	}

	stats.MergedRows = len(bars)
	stats.FirstDate = bars[0].Date
	stats.LastDate = bars[len(bars)-1].Date

	logger.Info("merged spread series",
		slog.Int("rows", stats.MergedRows),
		slog.String("first_date", stats.FirstDate.Format("2006-01-02")),
		slog.String("last_date", stats.LastDate.Format("2006-01-02")),
		slog.Int("max_days_gap", maxGap),
		slog.Int("gap_excluded", stats.GapExcluded))

	return bars, stats, nil
}

// collapseDaily sorts the series by timestamp and keeps the last row of each
// calendar day, treating intraday rows as marking that day's close.
func collapseDaily(points []SeriesPoint) []SeriesPoint {
	sorted := make([]SeriesPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var daily []SeriesPoint
	for _, pt := range sorted {
		day := dateKey(pt.Timestamp)
		if len(daily) > 0 && dateKey(daily[len(daily)-1].Timestamp).Equal(day) {
			daily[len(daily)-1] = pt
			continue
		}
		daily = append(daily, pt)
	}
	return daily
}

// joinOnDate inner-joins two daily series on their calendar date. Both inputs
// must already be one row per day, sorted ascending.
func joinOnDate(d1, d2 []SeriesPoint) []Bar {
	byDate := make(map[time.Time]SeriesPoint, len(d2))
	for _, pt := range d2 {
		byDate[dateKey(pt.Timestamp)] = pt
	}

	var bars []Bar
	for _, pt := range d1 {
		day := dateKey(pt.Timestamp)
		other, ok := byDate[day]
		if !ok {
			continue
		}
		bars = append(bars, Bar{
			Date:      day,
			Timestamp: pt.Timestamp,
			Close1:    pt.Close,
			Close2:    other.Close,
			Volume1:   pt.Volume,
			Volume2:   other.Volume,
		})
	}
	return bars
}

// dateKey truncates a timestamp to its calendar date in UTC.
func dateKey(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func calendarDaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func exceedsDedupThreshold(removed, original int) bool {
	if original == 0 {
		return false
	}
	return float64(removed)/float64(original) > dedupThreshold
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
