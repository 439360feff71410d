package detection

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-mapping/algorithms/common"
	"github.com/RyanBlaney/sonido-mapping/algorithms/objective"
)

// crossingFunc builds the crossing test for one window of the objective.
type crossingFunc func(o []float64, p Params) (func(v float64) bool, error)

// crossingDetector scans the objective over the window and accepts crossings
// at least MinimumSeparation samples apart, up to BeatCount of them. Level and
// Threshold differ only in the crossing test.
type crossingDetector struct {
	algorithm Algorithm
	crossing  crossingFunc
}

func (d crossingDetector) Algorithm() Algorithm { return d.algorithm }

func (d crossingDetector) Detect(samples []float64, p Params) ([]int, error) {
	if p.MinimumSeparation < 0 || p.AverageWidth < 0 {
		return nil, fmt.Errorf("%w: separation %d, average width %d",
			ErrInvalidParams, p.MinimumSeparation, p.AverageWidth)
	}
	start, end, err := window(samples, p)
	if err != nil {
		return nil, err
	}

	o, err := objective.Compute(samples, p.Objective, p.AverageWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	crossed, err := d.crossing(o[start:end+1], p)
	if err != nil {
		return nil, err
	}

	var times []int
	last := math.MinInt
	for i := start; i <= end; i++ {
		if p.BeatCount > 0 && len(times) >= p.BeatCount {
			break
		}
		if !crossed(o[i]) {
			continue
		}
		if last != math.MinInt && i-last < p.MinimumSeparation {
			continue
		}
		times = append(times, i)
		last = i
	}
	return times, nil
}

func levelCrossing(_ []float64, p Params) (func(float64) bool, error) {
	if p.Level < 0 {
		return nil, fmt.Errorf("%w: level %g", ErrInvalidParams, p.Level)
	}
	return func(v float64) bool { return math.Abs(v) >= p.Level }, nil
}

// thresholdCrossing places the crossing value at ThresholdPercent of the
// objective's range within the window.
func thresholdCrossing(o []float64, p Params) (func(float64) bool, error) {
	if p.ThresholdPercent < 0 || p.ThresholdPercent > 100 {
		return nil, fmt.Errorf("%w: threshold %g%%", ErrInvalidParams, p.ThresholdPercent)
	}
	lo, hi := common.MinMax(o)
	threshold := common.Lerp(lo, hi, p.ThresholdPercent/100)
	return func(v float64) bool { return v >= threshold }, nil
}
