package spread

import (
	"io"
	"log/slog"
	"time"
)

var testStart = time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// dailySeries builds one point per calendar day starting at testStart.
func dailySeries(closes []float64, volume float64) []SeriesPoint {
	pts := make([]SeriesPoint, len(closes))
	for i, c := range closes {
		pts[i] = SeriesPoint{
			Timestamp: testStart.AddDate(0, 0, i),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    volume,
		}
	}
	return pts
}

// barsFromMoves builds a merged series of len(moves)+1 consecutive daily bars
// whose tick moves are exactly the given sequence.
func barsFromMoves(moves []int, tickSize float64) []Bar {
	bars := make([]Bar, len(moves)+1)
	price := 1.0
	for i := range bars {
		if i > 0 {
			price += float64(moves[i-1]) * tickSize
		}
		day := testStart.AddDate(0, 0, i)
		bars[i] = Bar{
			Date:          time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Timestamp:     day,
			SpreadClose:   price,
			RowID:         i,
			IsConsecutive: true,
			DaysGap:       1,
		}
		if i > 0 {
			bars[i].PriceChange = float64(moves[i-1]) * tickSize
			bars[i].TickMove = moves[i-1]
			bars[i].AbsTickMove = absInt(moves[i-1])
			bars[i].HasMove = true
		}
	}
	bars[0].DaysGap = 0
	return bars
}

// regimeFromMoves builds a regime with contiguous RowIDs and the given tick
// moves, one unit of spread volume per bar unless volumes are provided.
func regimeFromMoves(kind RegimeKind, moves []int, volumes ...float64) Regime {
	r := Regime{Kind: kind}
	for i, m := range moves {
		vol := 1.0
		if len(volumes) > 0 {
			vol = volumes[i]
		}
		r.Bars = append(r.Bars, Bar{
			RowID:         i,
			TickMove:      m,
			AbsTickMove:   absInt(m),
			HasMove:       true,
			IsConsecutive: true,
			SpreadVolume:  vol,
		})
	}
	return r
}
