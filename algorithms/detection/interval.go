package detection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// intervalDetector splits the window into BeatCount beats and marks the
// extremum of the raw samples in each one.
type intervalDetector struct{}

func (intervalDetector) Algorithm() Algorithm { return Interval }

func (intervalDetector) Detect(samples []float64, p Params) ([]int, error) {
	if p.BeatCount < 1 {
		return nil, fmt.Errorf("%w: beat count %d", ErrInvalidParams, p.BeatCount)
	}
	start, end, err := window(samples, p)
	if err != nil {
		return nil, err
	}
	if end-start+1 < p.BeatCount {
		return nil, fmt.Errorf("%w: %d samples for %d beats", ErrDegenerateWindow, end-start+1, p.BeatCount)
	}

	w := p.Window
	w.Start, w.End = start, end
	beats, err := w.Beats(p.BeatCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	times := make([]int, len(beats))
	for k, b := range beats {
		times[k] = b.Start + extremum(samples[b.Start:b.End+1], p.Polarity)
	}
	return times, nil
}

// extremum returns the index of the first extreme value of s
func extremum(s []float64, polarity Polarity) int {
	switch polarity {
	case Minimum:
		return floats.MinIdx(s)
	case Absolute:
		best := 0
		for i, v := range s {
			if math.Abs(v) > math.Abs(s[best]) {
				best = i
			}
		}
		return best
	default:
		return floats.MaxIdx(s)
	}
}
