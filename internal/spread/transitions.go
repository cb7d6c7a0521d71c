package spread

// TransitionCohort summarizes the next move conditioned on the sign of the
// current one.
type TransitionCohort struct {
	Samples      int     `json:"samples"`
	ProbContinue float64 `json:"prob_continue"` // next move keeps the direction
	ProbReverse  float64 `json:"prob_reverse"`  // next move flips the direction
	ProbFlat     float64 `json:"prob_flat"`     // next move is zero
	MeanNextMove float64 `json:"mean_next_move"`
}

// Transitions holds the conditional transition analysis. A nil cohort means
// the sample count fell below the configured minimum: insufficient evidence,
// not "no edge".
type Transitions struct {
	Pairs     int               `json:"pairs"`
	AfterUp   *TransitionCohort `json:"after_up,omitempty"`
	AfterDown *TransitionCohort `json:"after_down,omitempty"`
}

// ComputeTransitions builds forward-looking pairs strictly inside the valid
// regime. Adjacency is decided by RowID (next.RowID-cur.RowID == 1), so rows
// dropped by filtering never create a spurious transition across a gap.
func ComputeTransitions(valid Regime, minSamples int) Transitions {
	var out Transitions

	type pair struct{ cur, next int }
	var pairs []pair
	for i := 0; i+1 < len(valid.Bars); i++ {
		cur, next := valid.Bars[i], valid.Bars[i+1]
		if next.RowID-cur.RowID != 1 {
			continue
		}
		pairs = append(pairs, pair{cur: cur.TickMove, next: next.TickMove})
	}
	out.Pairs = len(pairs)

	buildCohort := func(upCohort bool) *TransitionCohort {
		var c TransitionCohort
		var sumNext int
		var contin, reverse, flat int
		for _, pr := range pairs {
			if upCohort && pr.cur <= 0 {
				continue
			}
			if !upCohort && pr.cur >= 0 {
				continue
			}
			c.Samples++
			sumNext += pr.next
			switch {
			case pr.next == 0:
				flat++
			case (pr.next > 0) == upCohort:
				contin++
			default:
				reverse++
			}
		}
		if c.Samples < minSamples {
			return nil
		}
		n := float64(c.Samples)
		c.ProbContinue = float64(contin) / n
		c.ProbReverse = float64(reverse) / n
		c.ProbFlat = float64(flat) / n
		c.MeanNextMove = float64(sumNext) / n
		return &c
	}

	out.AfterUp = buildCohort(true)
	out.AfterDown = buildCohort(false)
	return out
}
