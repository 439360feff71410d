// Package objective derives the smoothed signal that Level and Threshold
// detection scan for crossings.
package objective

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-mapping/algorithms/common"
)

// Kind selects the derived signal.
type Kind int

const (
	AbsoluteSlope Kind = iota
	PositiveSlope
	NegativeSlope
	RawValue
)

func (k Kind) String() string {
	switch k {
	case AbsoluteSlope:
		return "absolute_slope"
	case PositiveSlope:
		return "positive_slope"
	case NegativeSlope:
		return "negative_slope"
	case RawValue:
		return "raw_value"
	default:
		return fmt.Sprintf("objective(%d)", int(k))
	}
}

// shape post-processes the averaged signal in place
type shape func(averaged []float64)

var kinds = map[Kind]shape{
	AbsoluteSlope: slope(math.Abs),
	PositiveSlope: slope(func(d float64) float64 { return math.Max(d, 0) }),
	NegativeSlope: slope(func(d float64) float64 { return math.Max(-d, 0) }),
	RawValue:      func([]float64) {},
}

// slope replaces the signal with its backward difference mapped through f.
// Index 0 has no predecessor and takes the value of index 1.
func slope(f func(float64) float64) shape {
	return func(s []float64) {
		n := len(s)
		if n < 2 {
			for i := range s {
				s[i] = 0
			}
			return
		}
		for i := n - 1; i >= 1; i-- {
			s[i] = f(s[i] - s[i-1])
		}
		s[0] = s[1]
	}
}

// ComputeInto writes the objective of samples into dst. dst and samples must
// have the same length and may not overlap.
func ComputeInto(dst, samples []float64, kind Kind, averageWidth int) error {
	if len(dst) != len(samples) {
		return fmt.Errorf("destination holds %d values, want %d", len(dst), len(samples))
	}
	f, ok := kinds[kind]
	if !ok {
		return fmt.Errorf("unknown objective %v", kind)
	}
	common.CenteredMovingAverage(dst, samples, averageWidth)
	f(dst)
	return nil
}

// Compute returns the objective of samples in a new slice.
func Compute(samples []float64, kind Kind, averageWidth int) ([]float64, error) {
	dst := make([]float64, len(samples))
	if err := ComputeInto(dst, samples, kind, averageWidth); err != nil {
		return nil, err
	}
	return dst, nil
}
