package analysis

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-mapping/logging"
	"github.com/RyanBlaney/sonido-mapping/rig"
)

// EnsureProcessed builds the processed rig once: float buffers of the raw
// shape holding physical values, identity calibration, copied event lists and
// signal ranges in physical units. Later calls do nothing.
func (s *Session) EnsureProcessed() (Result, error) {
	return s.run("ensure_processed", func(res *Result) ([]ChangeKind, error) {
		built, err := s.ensureProcessed(res)
		if err != nil || !built {
			return nil, err
		}
		return []ChangeKind{ChangeBuffer}, nil
	})
}

func (s *Session) ensureProcessed(res *Result) (bool, error) {
	if s.processed != nil {
		return false, nil
	}
	p, err := buildProcessed(s.raw, res)
	if err != nil {
		return false, err
	}
	s.processed = p
	res.Channels = len(p.Devices)
	return true, nil
}

func buildProcessed(raw *rig.Rig, res *Result) (*rig.Rig, error) {
	store := rig.NewBufferStore()
	store.MaxSamples = raw.Store.MaxSamples

	for _, id := range raw.Store.IDs() {
		b := raw.Store.Get(id)
		if err := store.Reserve(b.NumberOfSignals, b.NumberOfSamples()); err != nil {
			return nil, fmt.Errorf("processed buffer %d: %w", id, err)
		}
		f := rig.NewFloatBuffer(b.NumberOfSignals, b.NumberOfSamples(), b.Frequency)
		copy(f.Times, b.Times)
		f.Start, f.End = b.Start, b.End
		// channels no device reads keep their stored values
		for ch := range b.NumberOfSignals {
			f.SetChannel(ch, 0, b.Channel(ch))
		}
		if got := store.Add(f); got != id {
			return nil, fmt.Errorf("processed buffer %d stored as %d", id, got)
		}
	}

	p := &rig.Rig{Name: raw.Name, Store: store, Devices: make([]*rig.Device, len(raw.Devices))}
	written := make(map[rig.ChannelRef]rig.Calibration)
	for i, d := range raw.Devices {
		samples, err := raw.Samples(d)
		if err != nil {
			return nil, err
		}
		if prev, ok := written[d.Channel]; ok && prev != d.Calibration {
			res.warn(fmt.Errorf("device %q shares channel %d of buffer %d with a different calibration; first calibration kept",
				d.Name, d.Channel.Index, d.Channel.Buffer))
		} else {
			store.Get(d.Channel.Buffer).SetChannel(d.Channel.Index, 0, samples)
			written[d.Channel] = d.Calibration
		}

		c := d.Clone()
		c.Calibration = rig.Identity
		lo, hi := d.Calibration.Physical(d.SignalMinimum), d.Calibration.Physical(d.SignalMaximum)
		c.SignalMinimum, c.SignalMaximum = min(lo, hi), max(lo, hi)
		p.Devices[i] = c
	}
	return p, nil
}

// ResetToRaw discards the processed rig and reselects the raw device with the
// selected name, or nothing if there is none. Signal ranges of the processed
// devices are converted back to stored units; a device with zero gain keeps
// its raw range and is reported as a warning.
func (s *Session) ResetToRaw() (Result, error) {
	return s.run("reset_to_raw", func(res *Result) ([]ChangeKind, error) {
		if s.processed == nil {
			return nil, nil
		}
		for _, pd := range s.processed.Devices {
			d, ok := s.raw.DeviceByName(pd.Name)
			if !ok {
				continue
			}
			lo, errLo := d.Calibration.Stored(pd.SignalMinimum)
			hi, errHi := d.Calibration.Stored(pd.SignalMaximum)
			if err := errors.Join(errLo, errHi); err != nil {
				res.warn(fmt.Errorf("device %q: %w", d.Name, err))
				continue
			}
			d.SignalMinimum, d.SignalMaximum = min(lo, hi), max(lo, hi)
			res.Channels++
		}

		s.processed = nil
		if _, ok := s.raw.DeviceByName(s.selected); !ok {
			s.logger.Debug("selection cleared on reset", logging.Fields{"device": s.selected})
			s.selected = ""
		}
		return []ChangeKind{ChangeBuffer, ChangeSelection}, nil
	})
}
