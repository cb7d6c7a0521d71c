package spread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBootstrap(t *testing.T) {
	moves := []int{1, 1, -1, 2, 0, -2, 3, 0, 1, -1, 0, 1, -1, 2, 0}

	t.Run("fixed seed is reproducible", func(t *testing.T) {
		params := DefaultParams()
		params.BootstrapIterations = 200
		params.BootstrapSeed = 42

		valid := regimeFromMoves(RegimeValid, moves)
		first := ComputeBootstrap(valid, params)
		second := ComputeBootstrap(valid, params)

		assert.Equal(t, first, second)
	})

	t.Run("different seeds differ", func(t *testing.T) {
		params := DefaultParams()
		params.BootstrapIterations = 200
		params.BootstrapSeed = 1

		valid := regimeFromMoves(RegimeValid, moves)
		first := ComputeBootstrap(valid, params)

		params.BootstrapSeed = 2
		second := ComputeBootstrap(valid, params)

		assert.NotEqual(t, first, second)
	})

	t.Run("estimates stay inside the unit interval", func(t *testing.T) {
		params := DefaultParams()
		params.BootstrapIterations = 300
		params.BootstrapSeed = 7

		valid := regimeFromMoves(RegimeValid, moves)
		records := ComputeBootstrap(valid, params)
		require.Len(t, records, len(params.TickLevels))

		for _, rec := range records {
			for _, est := range []BootstrapEstimate{rec.Absolute, rec.Up, rec.Down} {
				assert.GreaterOrEqual(t, est.Mean, 0.0)
				assert.LessOrEqual(t, est.Mean, 1.0)
				assert.LessOrEqual(t, est.CILower, est.Mean)
				assert.GreaterOrEqual(t, est.CIUpper, est.Mean)
			}
		}
	})

	t.Run("degenerate sample gives degenerate interval", func(t *testing.T) {
		params := DefaultParams()
		params.BootstrapIterations = 100
		params.BootstrapSeed = 3

		valid := regimeFromMoves(RegimeValid, []int{1, 1, 1, 1, 1})
		records := ComputeBootstrap(valid, params)
		require.Len(t, records, 3)

		// Every resample of an all-ones sample crosses the one-tick threshold.
		assert.InDelta(t, 1.0, records[0].Absolute.Mean, 1e-12)
		assert.InDelta(t, 1.0, records[0].Absolute.CILower, 1e-12)
		assert.InDelta(t, 1.0, records[0].Absolute.CIUpper, 1e-12)
		assert.InDelta(t, 0.0, records[0].Down.Mean, 1e-12)

		// And never the two-tick threshold.
		assert.InDelta(t, 0.0, records[1].Absolute.Mean, 1e-12)
	})

	t.Run("empty regime yields nothing", func(t *testing.T) {
		assert.Nil(t, ComputeBootstrap(Regime{Kind: RegimeValid}, DefaultParams()))
	})
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{"median interpolates", 50, 2.5},
		{"lower tail", 0, 1},
		{"upper tail", 100, 4},
		{"interior", 25, 1.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, percentile(sorted, tt.q), 1e-12)
		})
	}

	t.Run("single value", func(t *testing.T) {
		assert.InDelta(t, 9, percentile([]float64{9}, 97.5), 1e-12)
	})
}
