package analysis

import (
	"errors"
	"fmt"
	"io"

	"github.com/RyanBlaney/sonido-mapping/logging"
	"github.com/RyanBlaney/sonido-mapping/rig"
	"github.com/RyanBlaney/sonido-mapping/settings"
)

// SaveSettings writes the settings block with one record per device of the
// active rig.
func (s *Session) SaveSettings(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	devices := s.active().Devices
	channels := make([]settings.Channel, len(devices))
	for i, d := range devices {
		channels[i] = settings.Channel{
			Status:   d.SignalStatus,
			RangeMin: d.SignalMinimum,
			RangeMax: d.SignalMaximum,
			Events:   d.Events.Events(),
		}
	}
	if err := settings.Encode(w, s.settings, channels); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// LoadSettings reads a settings block written for the active rig's devices.
// Level and average width keep their current values when the block has no
// Level extension; divisions are kept while they still fit the loaded window.
// A block holding out-of-domain values, or sample indices outside the
// buffers, is rejected as a whole: the settings fall back to the defaults of
// the first device's buffer and the rejection is returned as a warning.
func (s *Session) LoadSettings(r io.Reader) (Result, error) {
	return s.run("load_settings", func(res *Result) ([]ChangeKind, error) {
		active := s.active()
		st, channels, err := settings.Decode(r, s.settings, len(active.Devices))
		if err == nil {
			err = checkBounds(active, st, channels)
		}
		if errors.Is(err, settings.ErrInvalidPersistedSettings) {
			res.warn(err)
			s.settings = settings.Defaults(active.Buffer(active.Devices[0]))
			return []ChangeKind{ChangeSettings}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}

		if st.Window().Validate(max(st.BeatCount, 1)) != nil {
			s.logger.Debug("divisions dropped on load", logging.Fields{"divisions": st.Divisions})
			st.Divisions = nil
		}
		s.settings = st
		for i, d := range active.Devices {
			c := channels[i]
			d.SignalStatus = c.Status
			d.SignalMinimum, d.SignalMaximum = c.RangeMin, c.RangeMax
			// stored numbers are recomputed from position
			d.Events.Clear()
			for _, e := range c.Events {
				d.Events.Insert(e.Time, e.Status)
			}
			res.Events += d.Events.Len()
		}
		res.Channels = len(active.Devices)
		return []ChangeKind{ChangeSettings, ChangeEvents, ChangeDatum}, nil
	})
}

// checkBounds rejects a block whose sample indices fall outside the buffers
// they refer to.
func checkBounds(r *rig.Rig, st settings.Settings, channels []settings.Channel) error {
	n := r.Buffer(r.Devices[0]).NumberOfSamples()
	inside := func(t int) bool { return t >= 0 && t < n }
	switch {
	case !inside(st.SearchStart) || !inside(st.SearchEnd) || st.SearchStart > st.SearchEnd:
		return fmt.Errorf("%w: search window [%d,%d] outside %d samples",
			settings.ErrInvalidPersistedSettings, st.SearchStart, st.SearchEnd, n)
	case !inside(st.Datum):
		return fmt.Errorf("%w: datum %d outside %d samples", settings.ErrInvalidPersistedSettings, st.Datum, n)
	}

	for i, d := range r.Devices {
		samples := r.Buffer(d).NumberOfSamples()
		for _, e := range channels[i].Events {
			if e.Time < 0 || e.Time >= samples {
				return fmt.Errorf("%w: device %q event at %d outside %d samples",
					settings.ErrInvalidPersistedSettings, d.Name, e.Time, samples)
			}
		}
	}
	return nil
}
