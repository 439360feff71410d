package objective

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawValueIsMovingAverage(t *testing.T) {
	out, err := Compute([]float64{0, 3, 6, 9}, RawValue, 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5, 3, 6, 7.5}, out, 1e-12)
}

func TestSlopes(t *testing.T) {
	samples := []float64{0, 2, 1, 1, 4}

	abs, err := Compute(samples, AbsoluteSlope, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 1, 0, 3}, abs)

	pos, err := Compute(samples, PositiveSlope, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 0, 0, 3}, pos)

	neg, err := Compute(samples, NegativeSlope, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1, 0, 0}, neg)
}

func TestWidthLargerThanChannelDegrades(t *testing.T) {
	out, err := Compute([]float64{1, 2, 3}, RawValue, 50)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 2, 2}, out, 1e-12)

	out, err = Compute([]float64{1, 2, 3}, AbsoluteSlope, 50)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0, 0}, out, 1e-12)
}

func TestShortInputs(t *testing.T) {
	out, err := Compute(nil, AbsoluteSlope, 3)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = Compute([]float64{5}, PositiveSlope, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, out)
}

func TestComputeIntoValidates(t *testing.T) {
	assert.Error(t, ComputeInto(make([]float64, 2), []float64{1, 2, 3}, RawValue, 0))
	assert.Error(t, ComputeInto(make([]float64, 3), []float64{1, 2, 3}, Kind(9), 0))
}
