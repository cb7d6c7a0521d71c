package spread

import (
	"math/rand/v2"
	"sort"
)

// BootstrapEstimate is the mean and percentile interval of a resampled
// proportion across iterations.
type BootstrapEstimate struct {
	Mean    float64 `json:"mean"`
	CILower float64 `json:"ci_lower"` // 2.5th percentile
	CIUpper float64 `json:"ci_upper"` // 97.5th percentile
}

// BootstrapRecord holds the resampled estimates for one tick threshold.
type BootstrapRecord struct {
	TickThreshold int               `json:"tick_threshold"`
	Absolute      BootstrapEstimate `json:"absolute"`
	Up            BootstrapEstimate `json:"up"`
	Down          BootstrapEstimate `json:"down"`
}

// ComputeBootstrap resamples the valid regime's tick moves with replacement
// and reports mean proportions with [2.5, 97.5] percentile intervals per
// threshold.
//
// The full n-by-K index matrix is drawn up front and every proportion is
// computed with whole-array passes; there is no per-iteration re-draw. A
// non-negative seed makes the matrix, and therefore the intervals, exactly
// reproducible.
//
// Known limitation: sampling is IID. Serially correlated moves will make the
// reported intervals understate the true uncertainty; this is a disclosed
// approximation of the plain bootstrap, not something corrected for here.
func ComputeBootstrap(valid Regime, p Params) []BootstrapRecord {
	n := valid.Len()
	if n == 0 {
		return nil
	}

	moves := valid.TickMoves()
	absMoves := valid.AbsTickMoves()
	iters := p.BootstrapIterations

	rng := newBootstrapRNG(p.BootstrapSeed)

	// Flat n*K resample matrix, column-major: column k holds one iteration.
	indices := make([]int, n*iters)
	for i := range indices {
		indices[i] = rng.IntN(n)
	}

	records := make([]BootstrapRecord, 0, len(p.TickLevels))
	propAbs := make([]float64, iters)
	propUp := make([]float64, iters)
	propDown := make([]float64, iters)

	for _, t := range p.TickLevels {
		for k := 0; k < iters; k++ {
			col := indices[k*n : (k+1)*n]
			var cAbs, cUp, cDown int
			for _, idx := range col {
				if absMoves[idx] >= t {
					cAbs++
				}
				if moves[idx] >= t {
					cUp++
				}
				if moves[idx] <= -t {
					cDown++
				}
			}
			propAbs[k] = float64(cAbs) / float64(n)
			propUp[k] = float64(cUp) / float64(n)
			propDown[k] = float64(cDown) / float64(n)
		}

		records = append(records, BootstrapRecord{
			TickThreshold: t,
			Absolute:      summarizeProportions(propAbs),
			Up:            summarizeProportions(propUp),
			Down:          summarizeProportions(propDown),
		})
	}

	return records
}

func newBootstrapRNG(seed int64) *rand.Rand {
	if seed >= 0 {
		s := uint64(seed)
		return rand.New(rand.NewPCG(s, s))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func summarizeProportions(props []float64) BootstrapEstimate {
	sum := 0.0
	for _, v := range props {
		sum += v
	}

	sorted := make([]float64, len(props))
	copy(sorted, props)
	sort.Float64s(sorted)

	return BootstrapEstimate{
		Mean:    sum / float64(len(props)),
		CILower: percentile(sorted, 2.5),
		CIUpper: percentile(sorted, 97.5),
	}
}

// percentile computes the q-th percentile of sorted values with linear
// interpolation between closest ranks.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := q / 100 * float64(len(sorted)-1)
	lo := int(rank)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
