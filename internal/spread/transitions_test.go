package spread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTransitions(t *testing.T) {
	t.Run("cohort probabilities", func(t *testing.T) {
		valid := regimeFromMoves(RegimeValid, []int{1, 1, -1, -1, 1, 0})

		result := ComputeTransitions(valid, 1)
		assert.Equal(t, 5, result.Pairs)

		require.NotNil(t, result.AfterUp)
		assert.Equal(t, 3, result.AfterUp.Samples)
		assert.InDelta(t, 1.0/3, result.AfterUp.ProbContinue, 1e-12)
		assert.InDelta(t, 1.0/3, result.AfterUp.ProbReverse, 1e-12)
		assert.InDelta(t, 1.0/3, result.AfterUp.ProbFlat, 1e-12)
		assert.InDelta(t, 0, result.AfterUp.MeanNextMove, 1e-12)

		require.NotNil(t, result.AfterDown)
		assert.Equal(t, 2, result.AfterDown.Samples)
		assert.InDelta(t, 0.5, result.AfterDown.ProbContinue, 1e-12)
		assert.InDelta(t, 0.5, result.AfterDown.ProbReverse, 1e-12)
		assert.InDelta(t, 0, result.AfterDown.ProbFlat, 1e-12)
	})

	t.Run("cohort below minimum is omitted", func(t *testing.T) {
		valid := regimeFromMoves(RegimeValid, []int{1, 1, -1, -1, 1, 0})

		result := ComputeTransitions(valid, 3)
		assert.NotNil(t, result.AfterUp)
		assert.Nil(t, result.AfterDown)
	})

	t.Run("non-adjacent row IDs never pair", func(t *testing.T) {
		valid := regimeFromMoves(RegimeValid, []int{1, 1, 1, 1})
		// Simulate filtered-out rows between the second and third bars.
		valid.Bars[2].RowID = 5
		valid.Bars[3].RowID = 6

		result := ComputeTransitions(valid, 1)
		assert.Equal(t, 2, result.Pairs)
	})

	t.Run("flat current moves belong to no cohort", func(t *testing.T) {
		valid := regimeFromMoves(RegimeValid, []int{0, 0, 0, 0})

		result := ComputeTransitions(valid, 1)
		assert.Equal(t, 3, result.Pairs)
		assert.Nil(t, result.AfterUp)
		assert.Nil(t, result.AfterDown)
	})

	t.Run("too few bars", func(t *testing.T) {
		result := ComputeTransitions(regimeFromMoves(RegimeValid, []int{1}), 1)
		assert.Equal(t, 0, result.Pairs)
		assert.Nil(t, result.AfterUp)
		assert.Nil(t, result.AfterDown)
	})
}
