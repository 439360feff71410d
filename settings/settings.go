// Package settings holds the analysis settings that are saved with a session
// and the binary block they are stored in.
package settings

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-mapping/algorithms/datum"
	"github.com/RyanBlaney/sonido-mapping/algorithms/detection"
	"github.com/RyanBlaney/sonido-mapping/rig"
)

// ErrInvalidPersistedSettings is returned when a stored block holds a value
// outside its domain. The whole block is rejected.
var ErrInvalidPersistedSettings = errors.New("invalid persisted settings")

// EditOrder is the order events are stepped through when editing
type EditOrder int

const (
	ByDevice EditOrder = iota
	ByBeat
)

// SignalOrder is the order signals are listed in
type SignalOrder int

const (
	ByEvent SignalOrder = iota
	ByChannel
)

// Settings are the session-wide analysis settings.
type Settings struct {
	Datum             int                 `json:"datum"`
	CalculateEvents   bool                `json:"calculate_events"`
	Detection         detection.Algorithm `json:"detection"`
	EventNumber       int                 `json:"event_number"`
	BeatCount         int                 `json:"beat_count"`
	PotentialTime     int                 `json:"potential_time"`
	MinimumSeparation int                 `json:"minimum_separation"`
	ThresholdPercent  int                 `json:"threshold_percent"`
	DatumType         datum.Mode          `json:"datum_type"`
	EditOrder         EditOrder           `json:"edit_order"`
	SignalOrder       SignalOrder         `json:"signal_order"`
	SearchStart       int                 `json:"search_start"`
	SearchEnd         int                 `json:"search_end"`
	Divisions         []int               `json:"divisions,omitempty"`

	// stored only when Detection is Level
	Level        float64 `json:"level"`
	AverageWidth int     `json:"average_width"`
}

// Channel is the per-device part of a stored block
type Channel struct {
	Status   rig.EventStatus `json:"status"`
	RangeMin float64         `json:"range_min"`
	RangeMax float64         `json:"range_max"`
	Events   []rig.Event     `json:"events"`
}

// Defaults derives settings from a buffer: the search window covers the
// usable range and the datum sits a third of the way into the samples.
func Defaults(b *rig.SampleBuffer) Settings {
	third := b.NumberOfSamples() / 3
	return Settings{
		Datum:             third,
		CalculateEvents:   false,
		Detection:         detection.Interval,
		EventNumber:       1,
		BeatCount:         1,
		PotentialTime:     third,
		MinimumSeparation: 100,
		ThresholdPercent:  90,
		DatumType:         datum.Automatic,
		EditOrder:         ByDevice,
		SignalOrder:       ByChannel,
		SearchStart:       b.Start,
		SearchEnd:         b.End,
		Level:             0,
		AverageWidth:      6,
	}
}

// Window returns the search window
func (s Settings) Window() rig.SearchWindow {
	return rig.SearchWindow{Start: s.SearchStart, End: s.SearchEnd, Divisions: s.Divisions}
}

// Validate checks every enumerated value.
func (s Settings) Validate() error {
	switch {
	case !s.Detection.Valid():
		return fmt.Errorf("%w: detection %d", ErrInvalidPersistedSettings, int(s.Detection))
	case !s.DatumType.Valid():
		return fmt.Errorf("%w: datum type %d", ErrInvalidPersistedSettings, int(s.DatumType))
	case s.EditOrder != ByDevice && s.EditOrder != ByBeat:
		return fmt.Errorf("%w: edit order %d", ErrInvalidPersistedSettings, int(s.EditOrder))
	case s.SignalOrder != ByEvent && s.SignalOrder != ByChannel:
		return fmt.Errorf("%w: signal order %d", ErrInvalidPersistedSettings, int(s.SignalOrder))
	}
	return nil
}
