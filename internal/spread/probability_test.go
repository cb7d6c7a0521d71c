package spread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeProbabilities(t *testing.T) {
	params := DefaultParams()
	regime := regimeFromMoves(RegimeValid, []int{1, 1, -1, 2, 0, -2, 3, 0, 1, -1})

	result := ComputeProbabilities(regime, params)

	assert.Equal(t, RegimeValid, result.Kind)
	assert.Equal(t, 10, result.SampleSize)
	assert.Equal(t, 2, result.ZeroCount)
	assert.InDelta(t, 0.2, result.ZeroProb, 1e-12)

	require.Len(t, result.Records, 3)

	tests := []struct {
		threshold                      int
		exact, atLeast, up, down       int
		probExact, probAtLeast, probUp float64
	}{
		{1, 5, 8, 5, 3, 0.5, 0.8, 0.5},
		{2, 2, 3, 2, 1, 0.2, 0.3, 0.2},
		{3, 1, 1, 1, 0, 0.1, 0.1, 0.1},
	}
	for i, tt := range tests {
		rec := result.Records[i]
		assert.Equal(t, tt.threshold, rec.TickThreshold)
		assert.InDelta(t, float64(tt.threshold)*params.TickSize, rec.TickValue, 1e-12)
		assert.Equal(t, tt.exact, rec.CountExact)
		assert.Equal(t, tt.atLeast, rec.CountAtLeast)
		assert.Equal(t, tt.up, rec.CountUp)
		assert.Equal(t, tt.down, rec.CountDown)
		assert.InDelta(t, tt.probExact, rec.ProbExact, 1e-12)
		assert.InDelta(t, tt.probAtLeast, rec.ProbAtLeast, 1e-12)
		assert.InDelta(t, tt.probUp, rec.ProbUp, 1e-12)
	}
}

func TestComputeProbabilitiesEmptyRegime(t *testing.T) {
	result := ComputeProbabilities(Regime{Kind: RegimeValid}, DefaultParams())

	assert.Equal(t, 0, result.SampleSize)
	assert.Equal(t, WilsonInterval{}, result.ZeroCI)
	assert.Empty(t, result.Records)
}

func TestWilsonInterval(t *testing.T) {
	t.Run("known value", func(t *testing.T) {
		ci := wilsonInterval(8, 10)
		assert.InDelta(t, 0.4902, ci.Lower, 1e-3)
		assert.InDelta(t, 0.9433, ci.Upper, 1e-3)
	})

	t.Run("brackets the point estimate within the unit interval", func(t *testing.T) {
		for successes := 0; successes <= 20; successes++ {
			ci := wilsonInterval(successes, 20)
			p := float64(successes) / 20

			assert.GreaterOrEqual(t, ci.Lower, 0.0)
			assert.LessOrEqual(t, ci.Lower, p)
			assert.GreaterOrEqual(t, ci.Upper, p)
			assert.LessOrEqual(t, ci.Upper, 1.0)
		}
	})

	t.Run("zero successes still has positive width", func(t *testing.T) {
		ci := wilsonInterval(0, 50)
		assert.Equal(t, 0.0, ci.Lower)
		assert.Greater(t, ci.Upper, 0.0)
	})

	t.Run("zero trials is degenerate", func(t *testing.T) {
		assert.Equal(t, WilsonInterval{}, wilsonInterval(0, 0))
	})
}

func TestComputeVolumeWeighted(t *testing.T) {
	params := DefaultParams()

	t.Run("weights by spread volume", func(t *testing.T) {
		raw := regimeFromMoves(RegimeRaw, []int{2, -1, 0}, 100, 50, 50)

		records := ComputeVolumeWeighted(raw, params)
		require.Len(t, records, 3)

		assert.InDelta(t, 0.75, records[0].AtLeast, 1e-12)
		assert.InDelta(t, 0.50, records[0].Up, 1e-12)
		assert.InDelta(t, 0.25, records[0].Down, 1e-12)

		assert.InDelta(t, 0.50, records[1].AtLeast, 1e-12)
		assert.InDelta(t, 0.50, records[1].Up, 1e-12)
		assert.InDelta(t, 0.00, records[1].Down, 1e-12)
	})

	t.Run("zero total volume yields nothing", func(t *testing.T) {
		raw := regimeFromMoves(RegimeRaw, []int{1, -1}, 0, 0)
		assert.Nil(t, ComputeVolumeWeighted(raw, params))
	})

	t.Run("empty regime yields nothing", func(t *testing.T) {
		assert.Nil(t, ComputeVolumeWeighted(Regime{Kind: RegimeRaw}, params))
	})
}

func TestBuildHistogram(t *testing.T) {
	t.Run("bins in ascending move order", func(t *testing.T) {
		valid := regimeFromMoves(RegimeValid, []int{1, -1, 0, 1, 1, -2})

		bins := BuildHistogram(valid)
		require.Len(t, bins, 4)

		assert.Equal(t, -2, bins[0].TickMove)
		assert.Equal(t, -1, bins[1].TickMove)
		assert.Equal(t, 0, bins[2].TickMove)
		assert.Equal(t, 1, bins[3].TickMove)

		assert.Equal(t, 3, bins[3].Count)
		assert.InDelta(t, 0.5, bins[3].Share, 1e-12)

		total := 0.0
		for _, b := range bins {
			total += b.Share
		}
		assert.InDelta(t, 1.0, total, 1e-12)
	})

	t.Run("empty regime yields nothing", func(t *testing.T) {
		assert.Nil(t, BuildHistogram(Regime{Kind: RegimeValid}))
	})
}
