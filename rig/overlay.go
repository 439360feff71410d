package rig

import "fmt"

// Overlay appends every channel of other into the buffer of this rig's first
// device and adds a device for each of them. Both rigs must hold a single
// buffer with the same number of samples. The extended buffer is built before
// anything is swapped.
func (r *Rig) Overlay(other *Rig) error {
	if len(r.Devices) == 0 || len(other.Devices) == 0 {
		return fmt.Errorf("overlay needs devices on both rigs")
	}
	id := r.Devices[0].Channel.Buffer
	base := r.Store.Get(id)
	if base == nil {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, id)
	}

	// gather the other rig's channels, one per device, calibrated
	added := make([][]float64, 0, len(other.Devices))
	for _, d := range other.Devices {
		samples, err := other.Samples(d)
		if err != nil {
			return fmt.Errorf("overlay: %w", err)
		}
		if len(samples) != base.NumberOfSamples() {
			return fmt.Errorf("%w: %d samples, want %d", ErrShapeMismatch, len(samples), base.NumberOfSamples())
		}
		added = append(added, samples)
	}

	signals := base.NumberOfSignals + len(added)
	if err := r.Store.Reserve(signals, base.NumberOfSamples()); err != nil {
		return err
	}

	extended := NewFloatBuffer(signals, base.NumberOfSamples(), base.Frequency)
	copy(extended.Times, base.Times)
	extended.Start, extended.End = base.Start, base.End
	for ch := range base.NumberOfSignals {
		extended.SetChannel(ch, 0, base.Channel(ch))
	}
	for i, samples := range added {
		extended.SetChannel(base.NumberOfSignals+i, 0, samples)
	}

	if err := r.Store.Replace(id, extended); err != nil {
		return err
	}
	for i, d := range other.Devices {
		c := d.Clone()
		c.Channel = ChannelRef{Buffer: id, Index: base.NumberOfSignals + i}
		c.Calibration = Identity
		r.Devices = append(r.Devices, c)
	}
	return nil
}
