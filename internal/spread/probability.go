package spread

import (
	"math"
)

// WilsonInterval is a Wilson score confidence interval for a binomial
// proportion, clipped to [0, 1]. With zero trials both bounds are zero.
type WilsonInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// ProbabilityRecord holds tick-level counts and probabilities for one
// threshold within one regime.
type ProbabilityRecord struct {
	TickThreshold int     `json:"tick_threshold"`
	TickValue     float64 `json:"tick_value"` // threshold in price units

	CountExact   int `json:"count_exact"`
	CountAtLeast int `json:"count_at_least"`
	CountUp      int `json:"count_up"`
	CountDown    int `json:"count_down"`

	ProbExact   float64 `json:"prob_exact"`
	ProbAtLeast float64 `json:"prob_at_least"`
	ProbUp      float64 `json:"prob_up"`
	ProbDown    float64 `json:"prob_down"`

	ExactCI   WilsonInterval `json:"exact_ci"`
	AtLeastCI WilsonInterval `json:"at_least_ci"`
	UpCI      WilsonInterval `json:"up_ci"`
	DownCI    WilsonInterval `json:"down_ci"`
}

// RegimeProbabilities holds the empirical estimates for one regime.
type RegimeProbabilities struct {
	Kind       RegimeKind `json:"kind"`
	SampleSize int        `json:"sample_size"`

	// Zero-move probability, reported separately from the thresholds.
	ZeroCount int            `json:"zero_count"`
	ZeroProb  float64        `json:"zero_prob"`
	ZeroCI    WilsonInterval `json:"zero_ci"`

	Records []ProbabilityRecord `json:"records"`
}

// VolumeWeightedRecord weights threshold membership by spread volume rather
// than counting rows.
type VolumeWeightedRecord struct {
	TickThreshold int     `json:"tick_threshold"`
	AtLeast       float64 `json:"at_least"`
	Up            float64 `json:"up"`
	Down          float64 `json:"down"`
}

// ComputeProbabilities derives the empirical tick probabilities for a regime.
// An empty regime yields a zero-valued result rather than an error.
func ComputeProbabilities(r Regime, p Params) RegimeProbabilities {
	out := RegimeProbabilities{Kind: r.Kind, SampleSize: r.Len()}
	n := r.Len()
	if n == 0 {
		return out
	}

	for _, b := range r.Bars {
		if b.TickMove == 0 {
			out.ZeroCount++
		}
	}
	out.ZeroProb = float64(out.ZeroCount) / float64(n)
	out.ZeroCI = wilsonInterval(out.ZeroCount, n)

	for _, t := range p.TickLevels {
		rec := ProbabilityRecord{
			TickThreshold: t,
			TickValue:     float64(t) * p.TickSize,
		}
		for _, b := range r.Bars {
			if b.AbsTickMove == t {
				rec.CountExact++
			}
			if b.AbsTickMove >= t {
				rec.CountAtLeast++
			}
			if b.TickMove >= t {
				rec.CountUp++
			}
			if b.TickMove <= -t {
				rec.CountDown++
			}
		}
		rec.ProbExact = float64(rec.CountExact) / float64(n)
		rec.ProbAtLeast = float64(rec.CountAtLeast) / float64(n)
		rec.ProbUp = float64(rec.CountUp) / float64(n)
		rec.ProbDown = float64(rec.CountDown) / float64(n)
		rec.ExactCI = wilsonInterval(rec.CountExact, n)
		rec.AtLeastCI = wilsonInterval(rec.CountAtLeast, n)
		rec.UpCI = wilsonInterval(rec.CountUp, n)
		rec.DownCI = wilsonInterval(rec.CountDown, n)
		out.Records = append(out.Records, rec)
	}

	return out
}

// ComputeVolumeWeighted weights threshold membership by spread volume over
// the raw regime, outlier days included, since high-volume spike days carry
// most of the tail risk this estimate is meant to capture. A zero total
// volume yields an empty result.
func ComputeVolumeWeighted(raw Regime, p Params) []VolumeWeightedRecord {
	total := raw.TotalVolume()
	if total == 0 {
		return nil
	}

	records := make([]VolumeWeightedRecord, 0, len(p.TickLevels))
	for _, t := range p.TickLevels {
		rec := VolumeWeightedRecord{TickThreshold: t}
		for _, b := range raw.Bars {
			if b.AbsTickMove >= t {
				rec.AtLeast += b.SpreadVolume
			}
			if b.TickMove >= t {
				rec.Up += b.SpreadVolume
			}
			if b.TickMove <= -t {
				rec.Down += b.SpreadVolume
			}
		}
		rec.AtLeast /= total
		rec.Up /= total
		rec.Down /= total
		records = append(records, rec)
	}
	return records
}

// wilsonInterval computes the 95% Wilson score interval for successes out of
// trials. Zero trials yields the degenerate (0, 0) interval.
func wilsonInterval(successes, trials int) WilsonInterval {
	if trials == 0 {
		return WilsonInterval{}
	}

	n := float64(trials)
	p := float64(successes) / n
	z := z95

	denom := 1 + z*z/n
	center := (p + z*z/(2*n)) / denom
	margin := (z / denom) * math.Sqrt(p*(1-p)/n+z*z/(4*n*n))

	return WilsonInterval{
		Lower: math.Max(0, center-margin),
		Upper: math.Min(1, center+margin),
	}
}
