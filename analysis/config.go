package analysis

import (
	"github.com/RyanBlaney/sonido-mapping/algorithms/detection"
	"github.com/RyanBlaney/sonido-mapping/algorithms/objective"
	"github.com/RyanBlaney/sonido-mapping/algorithms/windowing"
	"github.com/RyanBlaney/sonido-mapping/rig"
)

// Config holds the session options that are not part of the persisted
// settings block.
type Config struct {
	// MaxBufferSamples caps samples x signals for any buffer the session
	// allocates. 0 means unlimited.
	MaxBufferSamples int `json:"max_buffer_samples"`

	Objective       objective.Kind     `json:"objective"`
	Polarity        detection.Polarity `json:"polarity"`
	DetectionStatus rig.EventStatus    `json:"detection_status"`

	// FourierWindow is applied before the power spectrum, frequency-domain
	// and correlation transforms.
	FourierWindow windowing.Type `json:"fourier_window"`
}

// DefaultConfig returns the configuration a session uses unless told otherwise
func DefaultConfig() Config {
	return Config{
		MaxBufferSamples: 64 * 1024 * 1024,
		Objective:        objective.AbsoluteSlope,
		Polarity:         detection.Maximum,
		DetectionStatus:  rig.Undecided,
		FourierWindow:    windowing.Square,
	}
}
