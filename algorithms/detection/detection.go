// Package detection finds fiducial events on one channel. Each Algorithm has
// one Detector implementation, looked up through For.
package detection

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-mapping/algorithms/objective"
	"github.com/RyanBlaney/sonido-mapping/rig"
)

var (
	// ErrDegenerateWindow is returned with an empty result when the search
	// window is empty, inverted or too narrow for the requested beats.
	ErrDegenerateWindow = errors.New("degenerate search window")

	// ErrInvalidParams is returned for parameters outside their domain.
	ErrInvalidParams = errors.New("invalid detection parameters")
)

// Algorithm is one of the event detection algorithms.
type Algorithm int

const (
	Interval Algorithm = iota
	Level
	Threshold
)

func (a Algorithm) String() string {
	switch a {
	case Interval:
		return "interval"
	case Level:
		return "level"
	case Threshold:
		return "threshold"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// Valid reports whether a is a known algorithm
func (a Algorithm) Valid() bool {
	_, ok := registry[a]
	return ok
}

// Polarity selects which extremum Interval detection looks for.
type Polarity int

const (
	Maximum Polarity = iota
	Minimum
	Absolute
)

// Params configures a detection run on one channel. Window indexes the
// channel's samples.
type Params struct {
	Window            rig.SearchWindow `json:"window"`
	BeatCount         int              `json:"beat_count"`
	Objective         objective.Kind   `json:"objective"`
	AverageWidth      int              `json:"average_width"`
	MinimumSeparation int              `json:"minimum_separation"`
	Level             float64          `json:"level"`
	ThresholdPercent  float64          `json:"threshold_percent"`
	Polarity          Polarity         `json:"polarity"`
	Status            rig.EventStatus  `json:"status"`
}

// DefaultParams returns the parameters used when a session starts, for a
// window covering [start, end].
func DefaultParams(start, end int) Params {
	return Params{
		Window:            rig.SearchWindow{Start: start, End: end},
		BeatCount:         1,
		Objective:         objective.AbsoluteSlope,
		AverageWidth:      6,
		MinimumSeparation: 100,
		Level:             0,
		ThresholdPercent:  90,
		Polarity:          Maximum,
		Status:            rig.Undecided,
	}
}

// Detector finds event times on one channel's samples.
type Detector interface {
	Algorithm() Algorithm
	Detect(samples []float64, p Params) ([]int, error)
}

var registry = map[Algorithm]Detector{
	Interval:  intervalDetector{},
	Level:     crossingDetector{algorithm: Level, crossing: levelCrossing},
	Threshold: crossingDetector{algorithm: Threshold, crossing: thresholdCrossing},
}

// For returns the detector implementing a.
func For(a Algorithm) (Detector, error) {
	d, ok := registry[a]
	if !ok {
		return nil, fmt.Errorf("%w: unknown algorithm %v", ErrInvalidParams, a)
	}
	return d, nil
}

// Detect runs algorithm a on samples and returns the event times in order.
func Detect(a Algorithm, samples []float64, p Params) ([]int, error) {
	d, err := For(a)
	if err != nil {
		return nil, err
	}
	return d.Detect(samples, p)
}

// window clips p.Window to the samples and reports a degenerate window.
func window(samples []float64, p Params) (start, end int, err error) {
	start = max(p.Window.Start, 0)
	end = min(p.Window.End, len(samples)-1)
	if start >= end {
		return 0, 0, fmt.Errorf("%w: [%d,%d]", ErrDegenerateWindow, p.Window.Start, p.Window.End)
	}
	return start, end, nil
}
