package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Numeric helpers shared by the detection, beat and spectral packages.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// MinMax returns the smallest and largest value of data
func MinMax(data []float64) (lo, hi float64) {
	if len(data) == 0 {
		return 0, 0
	}
	return floats.Min(data), floats.Max(data)
}

// WindowMean averages data over [center-width/2, center+width/2] clipped to
// the slice. A width of 0 returns data[center].
func WindowMean(data []float64, center, width int) float64 {
	lo, hi := ClipRange(center-width/2, center+width/2, len(data))
	return Mean(data[lo : hi+1])
}

// ClipRange clips the inclusive range [lo, hi] to [0, n).
func ClipRange(lo, hi, n int) (int, int) {
	return max(lo, 0), min(hi, n-1)
}

// CenteredMovingAverage writes into dst the mean of data over
// [i-width/2, i+width/2] for every i. The window shrinks at the edges instead
// of padding. dst must have the length of data.
func CenteredMovingAverage(dst, data []float64, width int) {
	n := len(data)
	if n == 0 {
		return
	}
	half := max(width, 0) / 2
	if half == 0 {
		copy(dst, data)
		return
	}

	// prefix[i] holds sum(data[:i])
	prefix := make([]float64, n+1)
	floats.CumSum(prefix[1:], data)

	for i := range n {
		lo, hi := ClipRange(i-half, i+half, n)
		dst[i] = (prefix[hi+1] - prefix[lo]) / float64(hi-lo+1)
	}
}

// RemoveMean subtracts the mean of data in place and returns it
func RemoveMean(data []float64) float64 {
	m := Mean(data)
	floats.AddConst(-m, data)
	return m
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Lerp performs linear interpolation between two values
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// IsPowerOfTwo checks if n is a power of 2
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// LargestPowerOfTwo returns the largest power of 2 <= n, or 0 when n < 1
func LargestPowerOfTwo(n int) int {
	if n < 1 {
		return 0
	}
	power := 1
	for power<<1 <= n {
		power <<= 1
	}
	return power
}

// FrequencyToBin converts a frequency in Hz to the nearest bin of a transform
// of length n, clamped to [0, n).
func FrequencyToBin(frequency float64, n int, sampleRate float64) int {
	if n <= 0 || sampleRate <= 0 {
		return 0
	}
	bin := int(math.Round(frequency * float64(n) / sampleRate))
	return max(0, min(bin, n-1))
}

// FoldedBin maps bin k of a length-n transform onto its non-negative frequency
// index, so k and n-k share one index.
func FoldedBin(k, n int) int {
	return min(k, n-k)
}
