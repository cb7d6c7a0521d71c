package spread

import "sort"

// HistogramBin is one bucket of the tick-move distribution.
type HistogramBin struct {
	TickMove int     `json:"tick_move"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"`
}

// BuildHistogram counts occurrences of each tick move in the valid regime.
// Bins are returned in ascending tick-move order.
func BuildHistogram(valid Regime) []HistogramBin {
	moves := valid.TickMoves()
	if len(moves) == 0 {
		return nil
	}

	counts := make(map[int]int, len(moves))
	for _, m := range moves {
		counts[m]++
	}

	bins := make([]HistogramBin, 0, len(counts))
	total := float64(len(moves))
	for move, count := range counts {
		bins = append(bins, HistogramBin{
			TickMove: move,
			Count:    count,
			Share:    float64(count) / total,
		})
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].TickMove < bins[j].TickMove })
	return bins
}
