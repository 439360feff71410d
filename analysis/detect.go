package analysis

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-mapping/algorithms/datum"
	"github.com/RyanBlaney/sonido-mapping/algorithms/detection"
	"github.com/RyanBlaney/sonido-mapping/rig"
)

// DetectionScope selects the devices a detection run replaces events on
type DetectionScope int

const (
	AllDevices DetectionScope = iota
	CurrentDevice
)

func (s *Session) detectionParams() detection.Params {
	st := s.settings
	return detection.Params{
		Window:            st.Window(),
		BeatCount:         st.BeatCount,
		Objective:         s.config.Objective,
		AverageWidth:      st.AverageWidth,
		MinimumSeparation: st.MinimumSeparation,
		Level:             st.Level,
		ThresholdPercent:  float64(st.ThresholdPercent),
		Polarity:          s.config.Polarity,
		Status:            s.config.DetectionStatus,
	}
}

// Detect runs the configured detection algorithm and replaces the event list
// of every device in scope. A degenerate window leaves the device with no
// events and is reported as a warning. With an automatic datum the datum is
// resolved afterwards.
func (s *Session) Detect(scope DetectionScope) (Result, error) {
	return s.run("detect", func(res *Result) ([]ChangeKind, error) {
		r := s.active()
		devices := r.Devices
		if scope == CurrentDevice {
			d, ok := s.selectedDevice()
			if !ok {
				return nil, ErrNoSelection
			}
			devices = []*rig.Device{d}
		}

		detector, err := detection.For(s.settings.Detection)
		if err != nil {
			return nil, err
		}
		params := s.detectionParams()

		// every device is detected before any list is replaced
		found := make([][]int, len(devices))
		for i, d := range devices {
			samples, err := r.Samples(d)
			if err != nil {
				return nil, err
			}
			times, err := detector.Detect(samples, params)
			switch {
			case errors.Is(err, detection.ErrDegenerateWindow):
				res.warn(fmt.Errorf("device %q: %w", d.Name, err))
			case err != nil:
				return nil, fmt.Errorf("device %q: %w", d.Name, err)
			}
			found[i] = times
		}

		for i, d := range devices {
			d.Events.Replace(found[i], params.Status)
			res.Events += d.Events.Len()
		}
		res.Channels = len(devices)

		changes := []ChangeKind{ChangeEvents}
		if s.settings.DatumType == datum.Automatic {
			if s.resolveDatum(res) {
				changes = append(changes, ChangeDatum)
			}
		}
		return changes, nil
	})
}

// ResolveDatum applies the datum mode to the current event lists.
func (s *Session) ResolveDatum() (Result, error) {
	return s.run("resolve_datum", func(res *Result) ([]ChangeKind, error) {
		if !s.resolveDatum(res) {
			return nil, nil
		}
		return []ChangeKind{ChangeDatum}, nil
	})
}

func (s *Session) resolveDatum(res *Result) bool {
	next, err := datum.Resolve(s.settings.DatumType, s.settings.Datum, s.active().Devices)
	if err != nil {
		res.warn(err)
		return false
	}
	changed := next != s.settings.Datum
	s.settings.Datum = next
	return changed
}
