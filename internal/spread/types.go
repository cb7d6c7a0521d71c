package spread

import (
	"time"
)

// RegimeKind identifies one of the two parallel views of the merged series.
type RegimeKind string

const (
	// RegimeRaw contains every consecutive bar with a defined tick move,
	// including outliers and warm-up rows. It is the "real world" view used
	// for tail-risk estimates.
	RegimeRaw RegimeKind = "raw"
	// RegimeValid is the raw regime minus outliers and warm-up rows. It is
	// the stable baseline used for filtered estimates and resampling.
	RegimeValid RegimeKind = "valid"
)

// SeriesPoint is a single row of one input price series before alignment.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Bar is one trading day of the merged spread series.
//
// RowID is assigned exactly once over the full merged series, before any
// filtering, and is never renumbered. It is the only valid basis for
// adjacency checks after rows are dropped from a regime.
type Bar struct {
	Date      time.Time `json:"date"`
	Timestamp time.Time `json:"timestamp"`

	Close1  float64 `json:"close1"`
	Close2  float64 `json:"close2"`
	Volume1 float64 `json:"volume1"`
	Volume2 float64 `json:"volume2"`

	SpreadClose  float64 `json:"spread_close"`
	SpreadVolume float64 `json:"spread_volume"`

	// PriceChange and TickMove are undefined for the first merged row;
	// HasMove reports whether they carry a value.
	PriceChange float64 `json:"price_change"`
	TickMove    int     `json:"tick_move"`
	AbsTickMove int     `json:"abs_tick_move"`
	HasMove     bool    `json:"has_move"`

	DaysGap       int  `json:"days_gap"`
	RowID         int  `json:"row_id"`
	IsConsecutive bool `json:"is_consecutive"`
	IsWarmup      bool `json:"is_warmup"`
	IsOutlier     bool `json:"is_outlier"`
}

// Regime is a read-only ordered view over the merged bars satisfying the
// regime predicate. Regimes are built once per run and never mutated.
type Regime struct {
	Kind RegimeKind `json:"kind"`
	Bars []Bar      `json:"-"`
}

// Len returns the number of bars in the regime.
func (r Regime) Len() int {
	return len(r.Bars)
}

// TickMoves returns the regime's tick moves in order.
func (r Regime) TickMoves() []int {
	moves := make([]int, len(r.Bars))
	for i, b := range r.Bars {
		moves[i] = b.TickMove
	}
	return moves
}

// AbsTickMoves returns the regime's absolute tick moves in order.
func (r Regime) AbsTickMoves() []int {
	moves := make([]int, len(r.Bars))
	for i, b := range r.Bars {
		moves[i] = b.AbsTickMove
	}
	return moves
}

// TotalVolume sums spread volume across the regime.
func (r Regime) TotalVolume() float64 {
	total := 0.0
	for _, b := range r.Bars {
		total += b.SpreadVolume
	}
	return total
}

// Params contains all tunable parameters for a spread analysis run.
type Params struct {
	// TickSize is the smallest price increment; moves are quantized to
	// integer multiples of it.
	TickSize float64 `json:"tick_size" validate:"gt=0"`
	// TickLevels are the thresholds (in ticks) probabilities are computed at.
	TickLevels []int `json:"tick_levels" validate:"min=1,dive,gt=0"`

	// OutlierMADThreshold is the multiplier applied to the scaled expanding
	// MAD when classifying outliers.
	OutlierMADThreshold float64 `json:"outlier_mad_threshold" validate:"gt=0"`
	// MinOutlierTicks is the floor (in ticks) for the outlier threshold,
	// guarding against near-zero dispersion.
	MinOutlierTicks int `json:"min_outlier_ticks" validate:"gte=1"`
	// MinExpandingWindow is the number of rows the expanding statistics need
	// before they are defined; earlier rows are warm-up.
	MinExpandingWindow int `json:"min_expanding_window" validate:"gte=2"`

	// StrictDailyOnly selects the adjacency policy: strict rejects calendar
	// gaps over 3 days (weekends only), relaxed allows up to 5.
	StrictDailyOnly bool `json:"strict_daily_only"`

	MinConditionalSamples int `json:"min_conditional_samples" validate:"gte=1"`

	SwingWindow        int `json:"swing_window" validate:"gte=3"`
	TopNLevels         int `json:"top_n_levels" validate:"gte=1"`
	SRMinDistanceTicks int `json:"sr_min_distance_ticks" validate:"gte=1"`
	SRLookbackDays     int `json:"sr_lookback_days" validate:"gte=1"`

	BootstrapIterations int `json:"bootstrap_iterations" validate:"gte=1"`
	// BootstrapSeed seeds the resampler when non-negative; a negative value
	// leaves the resampler entropy-seeded (non-deterministic).
	BootstrapSeed int64 `json:"bootstrap_seed"`
}

// DefaultParams returns the production defaults.
func DefaultParams() Params {
	return Params{
		TickSize:              0.005,
		TickLevels:            []int{1, 2, 3},
		OutlierMADThreshold:   4.0,
		MinOutlierTicks:       10,
		MinExpandingWindow:    20,
		StrictDailyOnly:       false,
		MinConditionalSamples: 30,
		SwingWindow:           5,
		TopNLevels:            3,
		SRMinDistanceTicks:    4,
		SRLookbackDays:        60,
		BootstrapIterations:   2000,
		BootstrapSeed:         -1,
	}
}

// MaxDaysGap returns the adjacency threshold implied by the policy.
func (p Params) MaxDaysGap() int {
	if p.StrictDailyOnly {
		return strictMaxDaysGap
	}
	return relaxedMaxDaysGap
}

// IsValid reports whether the parameters are usable.
func (p Params) IsValid() bool {
	if p.TickSize <= 0 || len(p.TickLevels) == 0 {
		return false
	}
	for _, lv := range p.TickLevels {
		if lv <= 0 {
			return false
		}
	}
	return p.OutlierMADThreshold > 0 && p.MinOutlierTicks >= 1 &&
		p.MinExpandingWindow >= 2 && p.MinConditionalSamples >= 1 &&
		p.SwingWindow >= 3 && p.TopNLevels >= 1 &&
		p.SRMinDistanceTicks >= 1 && p.SRLookbackDays >= 1 &&
		p.BootstrapIterations >= 1
}

const (
	// madConsistency rescales the MAD to approximate a standard deviation
	// under normality.
	madConsistency = 1.4826

	// z95 is the 97.5th percentile of the standard normal, used for Wilson
	// score intervals.
	z95 = 1.959963984540054

	strictMaxDaysGap  = 3
	relaxedMaxDaysGap = 5

	// minLookbackRows is the minimum row count the S/R recency window must
	// hold before falling back to the full history.
	minLookbackRows = 10

	// minStatRows is the minimum raw-regime size for the statistical suite.
	minStatRows = 10

	// minWilcoxonSamples is the minimum count of non-zero moves for the
	// signed-rank test.
	minWilcoxonSamples = 10
)
