package spread

import (
	"math"
	"sort"
)

// MoveDistribution summarizes the tick-move distribution of the raw regime.
// MeanAbs and MedianAbs describe the magnitude of movement regardless of
// direction.
type MoveDistribution struct {
	SampleSize int     `json:"sample_size"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"` // population standard deviation
	MeanAbs    float64 `json:"mean_abs"`
	MedianAbs  float64 `json:"median_abs"`
	Skewness   float64 `json:"skewness"`
	Kurtosis   float64 `json:"kurtosis"` // excess kurtosis
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
}

// Autocorrelation holds the sample autocorrelation at one lag. Defined is
// false when the lagged slice has zero variance or the estimate is not
// finite.
type Autocorrelation struct {
	Lag     int     `json:"lag"`
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// TTestResult is a one-sample two-sided t-test of the mean against zero.
type TTestResult struct {
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"` // p < 0.05
	Available   bool    `json:"available"`
}

// WilcoxonResult is the Wilcoxon signed-rank test on non-zero moves with the
// normal approximation and tie correction.
type WilcoxonResult struct {
	Statistic   float64 `json:"statistic"` // min(W+, W-)
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
	Available   bool    `json:"available"`
	Samples     int     `json:"samples"`
}

// RunsTestResult is the Wald-Wolfowitz runs test on the above/below-median
// split of the move series.
type RunsTestResult struct {
	Runs       int     `json:"runs"`
	Expected   float64 `json:"expected"`
	ZScore     float64 `json:"z_score"`
	Random     bool    `json:"random"` // |z| < 1.96
	Applicable bool    `json:"applicable"`
}

// StatisticalSuite bundles every test run on the raw regime.
type StatisticalSuite struct {
	Available        bool              `json:"available"`
	Distribution     MoveDistribution  `json:"distribution"`
	Autocorrelations []Autocorrelation `json:"autocorrelations"`
	TTest            TTestResult       `json:"t_test"`
	Wilcoxon         WilcoxonResult    `json:"wilcoxon"`
	RunsTest         RunsTestResult    `json:"runs_test"`
}

var autocorrLags = []int{1, 2, 3, 5}

// ComputeStatistics runs the full suite on the raw regime's tick moves. All
// tests are skipped when fewer than ten moves are present.
func ComputeStatistics(raw Regime) StatisticalSuite {
	intMoves := raw.TickMoves()
	if len(intMoves) < minStatRows {
		return StatisticalSuite{}
	}
	moves := make([]float64, len(intMoves))
	for i, m := range intMoves {
		moves[i] = float64(m)
	}

	suite := StatisticalSuite{Available: true}
	suite.Distribution = describeMoves(moves)
	suite.Autocorrelations = computeAutocorrelations(moves, autocorrLags)
	suite.TTest = oneSampleTTest(moves)
	suite.Wilcoxon = wilcoxonSignedRank(moves)
	suite.RunsTest = runsTest(moves)
	return suite
}

func describeMoves(moves []float64) MoveDistribution {
	n := len(moves)
	d := MoveDistribution{SampleSize: n, Min: moves[0], Max: moves[0]}

	var sum, sumAbs float64
	absMoves := make([]float64, n)
	for i, m := range moves {
		sum += m
		absMoves[i] = math.Abs(m)
		sumAbs += absMoves[i]
		if m < d.Min {
			d.Min = m
		}
		if m > d.Max {
			d.Max = m
		}
	}
	d.Mean = sum / float64(n)
	d.MeanAbs = sumAbs / float64(n)
	d.MedianAbs = median(absMoves)

	var m2, m3, m4 float64
	for _, m := range moves {
		dev := m - d.Mean
		m2 += dev * dev
		m3 += dev * dev * dev
		m4 += dev * dev * dev * dev
	}
	m2 /= float64(n)
	m3 /= float64(n)
	m4 /= float64(n)

	d.StdDev = math.Sqrt(m2)
	if d.StdDev > 0 {
		d.Skewness = m3 / math.Pow(d.StdDev, 3)
		d.Kurtosis = m4/math.Pow(d.StdDev, 4) - 3
	}
	return d
}

func computeAutocorrelations(moves []float64, lags []int) []Autocorrelation {
	out := make([]Autocorrelation, 0, len(lags))
	for _, lag := range lags {
		ac := Autocorrelation{Lag: lag}
		if lag < len(moves) {
			if v, ok := autocorrelation(moves, lag); ok {
				ac.Value = v
				ac.Defined = true
			}
		}
		out = append(out, ac)
	}
	return out
}

// autocorrelation computes the Pearson correlation between the series and
// its lagged copy.
func autocorrelation(moves []float64, lag int) (float64, bool) {
	n := len(moves) - lag
	if n < 2 {
		return 0, false
	}
	x := moves[:n]
	y := moves[lag:]

	var meanX, meanY float64
	for i := 0; i < n; i++ {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	r := cov / math.Sqrt(varX*varY)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// oneSampleTTest tests whether the mean move differs from zero. The p-value
// comes from the Student t distribution via the regularized incomplete beta
// function.
func oneSampleTTest(moves []float64) TTestResult {
	n := len(moves)
	if n < 2 {
		return TTestResult{}
	}

	var sum float64
	for _, m := range moves {
		sum += m
	}
	mean := sum / float64(n)

	var ss float64
	for _, m := range moves {
		dev := m - mean
		ss += dev * dev
	}
	sd := math.Sqrt(ss / float64(n-1))
	if sd == 0 {
		return TTestResult{}
	}

	t := mean / (sd / math.Sqrt(float64(n)))
	df := float64(n - 1)
	p := regularizedIncompleteBeta(df/2, 0.5, df/(df+t*t))
	return TTestResult{
		Statistic:   t,
		PValue:      p,
		Significant: p < 0.05,
		Available:   true,
	}
}

// wilcoxonSignedRank applies the signed-rank test to the non-zero moves using
// the normal approximation with average ranks for ties and the tie variance
// correction.
func wilcoxonSignedRank(moves []float64) WilcoxonResult {
	var nonZero []float64
	for _, m := range moves {
		if m != 0 {
			nonZero = append(nonZero, m)
		}
	}
	n := len(nonZero)
	if n < minWilcoxonSamples {
		return WilcoxonResult{Samples: n}
	}

	type ranked struct {
		abs  float64
		sign float64
	}
	items := make([]ranked, n)
	for i, m := range nonZero {
		items[i] = ranked{abs: math.Abs(m), sign: math.Copysign(1, m)}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].abs < items[j].abs })

	ranks := make([]float64, n)
	var tieCorrection float64
	for i := 0; i < n; {
		j := i
		for j < n && items[j].abs == items[i].abs {
			j++
		}
		avgRank := float64(i+j+1) / 2 // ranks are 1-based
		for k := i; k < j; k++ {
			ranks[k] = avgRank
		}
		if t := float64(j - i); t > 1 {
			tieCorrection += t*t*t - t
		}
		i = j
	}

	var wPlus, wMinus float64
	for i, it := range items {
		if it.sign > 0 {
			wPlus += ranks[i]
		} else {
			wMinus += ranks[i]
		}
	}
	w := math.Min(wPlus, wMinus)

	fn := float64(n)
	mu := fn * (fn + 1) / 4
	variance := fn*(fn+1)*(2*fn+1)/24 - tieCorrection/48
	if variance <= 0 {
		return WilcoxonResult{Statistic: w, Samples: n}
	}

	z := (w - mu) / math.Sqrt(variance)
	p := 2 * (1 - standardNormalCDF(math.Abs(z)))
	return WilcoxonResult{
		Statistic:   w,
		PValue:      p,
		Significant: p < 0.05,
		Available:   true,
		Samples:     n,
	}
}

// runsTest checks for randomness in the sequence of above/below-median moves.
func runsTest(moves []float64) RunsTestResult {
	med := median(moves)

	var above, below int
	signs := make([]bool, 0, len(moves))
	for _, m := range moves {
		isAbove := m > med
		signs = append(signs, isAbove)
		if isAbove {
			above++
		} else {
			below++
		}
	}
	if above == 0 || below == 0 {
		return RunsTestResult{}
	}

	runs := 1
	for i := 1; i < len(signs); i++ {
		if signs[i] != signs[i-1] {
			runs++
		}
	}

	a, b := float64(above), float64(below)
	expected := 1 + 2*a*b/(a+b)
	variance := 2 * a * b * (2*a*b - a - b) / ((a + b) * (a + b) * (a + b - 1))
	z := (float64(runs) - expected) / math.Sqrt(math.Max(variance, 1e-9))

	return RunsTestResult{
		Runs:       runs,
		Expected:   expected,
		ZScore:     z,
		Random:     math.Abs(z) < 1.96,
		Applicable: true,
	}
}

func standardNormalCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// regularizedIncompleteBeta computes I_x(a, b) with the continued fraction
// expansion (Lentz's method), accurate enough for p-values here.
func regularizedIncompleteBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	lnBeta, _ := math.Lgamma(a + b)
	lnGa, _ := math.Lgamma(a)
	lnGb, _ := math.Lgamma(b)
	front := math.Exp(a*math.Log(x) + b*math.Log(1-x) + lnBeta - lnGa - lnGb)

	// The continued fraction converges fastest for x <= (a+1)/(a+b+2); use
	// the symmetry I_x(a,b) = 1 - I_{1-x}(b,a) strictly above the pivot.
	// At the pivot itself the flip maps the symmetric case a==b, x=0.5 back
	// onto identical arguments and never terminates, so it must fall
	// through to the fraction.
	if x > (a+1)/(a+b+2) {
		return 1 - regularizedIncompleteBeta(b, a, 1-x)
	}

	const (
		maxIterations = 200
		epsilon       = 1e-14
		tiny          = 1e-30
	)

	c := 1.0
	d := 1 - (a+b)*x/(a+1)
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	result := d

	for m := 1; m <= maxIterations; m++ {
		fm := float64(m)

		// Even step.
		num := fm * (b - fm) * x / ((a + 2*fm - 1) * (a + 2*fm))
		d = 1 + num*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		d = 1 / d
		c = 1 + num/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		result *= d * c

		// Odd step.
		num = -(a + fm) * (a + b + fm) * x / ((a + 2*fm) * (a + 2*fm + 1))
		d = 1 + num*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		d = 1 / d
		c = 1 + num/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		delta := d * c
		result *= delta

		if math.Abs(delta-1) < epsilon {
			break
		}
	}

	return front * result / a
}
