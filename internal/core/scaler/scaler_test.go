package scaler

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitTransform_ZeroMeanUnitStd(t *testing.T) {
	t.Parallel()

	X := [][]float64{
		{1, 10, 5},
		{2, 20, 5},
		{3, 60, 5},
		{10, 10, 5},
	}
	s, err := Fit(X)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	Z, err := s.TransformAll(X)
	require.NoError(t, err)

	for j := 0; j < 3; j++ {
		var sum, sq float64
		for _, row := range Z {
			require.False(t, math.IsNaN(row[j]))
			sum += row[j]
		}
		mean := sum / float64(len(Z))
		for _, row := range Z {
			sq += (row[j] - mean) * (row[j] - mean)
		}
		std := math.Sqrt(sq / float64(len(Z)))

		assert.InDelta(t, 0, mean, 1e-9, "column %d mean", j)
		if j == 2 {
			assert.Equal(t, 0.0, std, "constant column scales to zero")
			continue
		}
		assert.InDelta(t, 1, std, 1e-9, "column %d std", j)
	}
	for _, row := range Z {
		assert.Equal(t, 0.0, row[2])
	}
}

func TestTransform_WidthMismatch(t *testing.T) {
	t.Parallel()

	s, err := Fit([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	_, err = s.Transform([]float64{1})
	assert.True(t, errors.Is(err, ErrWidth))
}

func TestFit_Errors(t *testing.T) {
	t.Parallel()

	_, err := Fit(nil)
	assert.True(t, errors.Is(err, ErrEmpty))

	_, err = Fit([][]float64{{1, 2}, {3}})
	assert.True(t, errors.Is(err, ErrWidth))
}

func TestTransform_DoesNotRefit(t *testing.T) {
	t.Parallel()

	s, err := Fit([][]float64{{0}, {2}})
	require.NoError(t, err)

	// mean 1 std 1, so an outlier stays an outlier
	out, err := s.Transform([]float64{101})
	require.NoError(t, err)
	assert.Equal(t, []float64{100}, out)
}

func TestFit_InexactConstantScalesToZero(t *testing.T) {
	t.Parallel()

	for _, c := range []float64{0.1, 0.7, 1e9 / 3, -2.2} {
		s, err := Fit([][]float64{{c, 1}, {c, 2}, {c, 3}})
		require.NoError(t, err)
		assert.Zero(t, s.Std[0], "constant %v", c)
		assert.Equal(t, c, s.Mean[0])

		for _, row := range [][]float64{{c, 2}, {c, 9}} {
			out, err := s.Transform(row)
			require.NoError(t, err)
			assert.Zero(t, out[0], "constant %v", c)
		}
		assert.Greater(t, s.Std[1], 0.0)
	}
}
