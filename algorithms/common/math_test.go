package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCenteredMovingAverageShrinksAtEdges(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	dst := make([]float64, len(data))

	CenteredMovingAverage(dst, data, 2)

	// width 2 spans i-1..i+1
	assert.InDeltaSlice(t, []float64{1.5, 2, 3, 4, 5, 5.5}, dst, 1e-12)
}

func TestCenteredMovingAverageWidthLargerThanData(t *testing.T) {
	data := []float64{2, 4, 6}
	dst := make([]float64, len(data))

	CenteredMovingAverage(dst, data, 100)

	assert.InDeltaSlice(t, []float64{4, 4, 4}, dst, 1e-12)
}

func TestCenteredMovingAverageZeroWidthCopies(t *testing.T) {
	data := []float64{3, -1, 7}
	dst := make([]float64, len(data))

	CenteredMovingAverage(dst, data, 0)
	assert.Equal(t, data, dst)

	CenteredMovingAverage(dst, data, 1)
	assert.Equal(t, data, dst)
}

func TestWindowMean(t *testing.T) {
	data := []float64{0, 10, 20, 30, 40}

	assert.Equal(t, 20.0, WindowMean(data, 2, 0))
	assert.Equal(t, 20.0, WindowMean(data, 2, 2))
	assert.Equal(t, 5.0, WindowMean(data, 0, 2))
	assert.Equal(t, 35.0, WindowMean(data, 4, 3))
}

func TestLargestPowerOfTwo(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 2: 2, 3: 2, 800: 512, 1024: 1024, 1025: 1024}
	for in, want := range cases {
		assert.Equal(t, want, LargestPowerOfTwo(in), "n=%d", in)
	}
	assert.True(t, IsPowerOfTwo(512))
	assert.False(t, IsPowerOfTwo(0))
}

func TestFrequencyToBin(t *testing.T) {
	assert.Equal(t, 51, FrequencyToBin(50, 512, 500))
	assert.Equal(t, 0, FrequencyToBin(-3, 512, 500))
	assert.Equal(t, 511, FrequencyToBin(10_000, 512, 500))
	assert.Equal(t, 256, FrequencyToBin(250, 512, 500))
	assert.Equal(t, 0, FrequencyToBin(50, 512, 0))
}

func TestFoldedBinAndMinMax(t *testing.T) {
	assert.Equal(t, 3, FoldedBin(3, 16))
	assert.Equal(t, 3, FoldedBin(13, 16))
	assert.Equal(t, 8, FoldedBin(8, 16))

	lo, hi := MinMax([]float64{3, -2, 9})
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 9.0, hi)

	data := []float64{1, 2, 3}
	assert.Equal(t, 2.0, RemoveMean(data))
	assert.Equal(t, []float64{-1, 0, 1}, data)
}
