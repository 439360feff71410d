package rig

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Calibration maps stored values to physical units:
// physical = Gain * (stored - Offset).
type Calibration struct {
	Gain   float64 `json:"gain"`
	Offset float64 `json:"offset"`
}

// Identity is the calibration of a buffer already in physical units.
var Identity = Calibration{Gain: 1, Offset: 0}

// Physical converts a stored value to physical units.
func (c Calibration) Physical(stored float64) float64 {
	return c.Gain * (stored - c.Offset)
}

// Stored converts a physical value back to stored units.
func (c Calibration) Stored(physical float64) (float64, error) {
	if c.Gain == 0 {
		return 0, ErrZeroGain
	}
	return physical/c.Gain + c.Offset, nil
}

// DeviceKind separates measurement electrodes from auxiliary or derived lanes.
type DeviceKind int

const (
	Electrode DeviceKind = iota
	Auxiliary
)

func (k DeviceKind) String() string {
	switch k {
	case Electrode:
		return "electrode"
	case Auxiliary:
		return "auxiliary"
	default:
		return "unknown"
	}
}

// ChannelRef locates a device's samples: a buffer handle plus the channel
// index within that buffer.
type ChannelRef struct {
	Buffer BufferID
	Index  int
}

// Device is one recorded or derived signal lane.
type Device struct {
	Name          string
	Kind          DeviceKind
	Channel       ChannelRef
	Calibration   Calibration
	SignalMinimum float64
	SignalMaximum float64
	SignalStatus  EventStatus
	Events        *EventList
}

// Clone copies the device and its event list.
func (d *Device) Clone() *Device {
	c := *d
	if d.Events != nil {
		c.Events = d.Events.Clone()
	} else {
		c.Events = NewEventList()
	}
	return &c
}

// Rig is the full set of devices for one recording, together with the store
// that owns their buffers.
type Rig struct {
	Name    string
	Store   *BufferStore
	Devices []*Device
}

// NewRig creates an empty rig with its own store.
func NewRig(name string) *Rig {
	return &Rig{Name: name, Store: NewBufferStore()}
}

// AddDevice appends a device reading channel index of buffer id. Calibration
// defaults to identity.
func (r *Rig) AddDevice(name string, kind DeviceKind, id BufferID, index int) *Device {
	d := &Device{
		Name:          name,
		Kind:          kind,
		Channel:       ChannelRef{Buffer: id, Index: index},
		Calibration:   Identity,
		SignalMinimum: math.Inf(1),
		SignalMaximum: math.Inf(-1),
		SignalStatus:  Undecided,
		Events:        NewEventList(),
	}
	r.Devices = append(r.Devices, d)
	return d
}

// DeviceByName returns the first device called name.
func (r *Rig) DeviceByName(name string) (*Device, bool) {
	for _, d := range r.Devices {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Buffer returns the buffer a device reads from.
func (r *Rig) Buffer(d *Device) *SampleBuffer {
	return r.Store.Get(d.Channel.Buffer)
}

// Samples returns a calibrated copy of a device's channel over the whole buffer.
func (r *Rig) Samples(d *Device) ([]float64, error) {
	b := r.Buffer(d)
	if b == nil {
		return nil, fmt.Errorf("device %q: %w: %d", d.Name, ErrUnknownBuffer, d.Channel.Buffer)
	}
	if d.Channel.Index < 0 || d.Channel.Index >= b.NumberOfSignals {
		return nil, fmt.Errorf("device %q: channel %d outside %d signals", d.Name, d.Channel.Index, b.NumberOfSignals)
	}
	out := b.Channel(d.Channel.Index)
	for i, v := range out {
		out[i] = d.Calibration.Physical(v)
	}
	return out, nil
}

// DevicesOn returns the devices reading from buffer id, in rig order.
func (r *Rig) DevicesOn(id BufferID) []*Device {
	var out []*Device
	for _, d := range r.Devices {
		if d.Channel.Buffer == id {
			out = append(out, d)
		}
	}
	return out
}

// UpdateSignalRange sets each device's display range from its calibrated
// samples within the buffer's usable range.
func (r *Rig) UpdateSignalRange() error {
	for _, d := range r.Devices {
		samples, err := r.Samples(d)
		if err != nil {
			return err
		}
		b := r.Buffer(d)
		if b.ActiveLength() == 0 {
			continue
		}
		active := samples[b.Start : b.End+1]
		d.SignalMinimum, d.SignalMaximum = floats.Min(active), floats.Max(active)
	}
	return nil
}

// Clone deep-copies the store, devices and their events.
func (r *Rig) Clone() *Rig {
	c := &Rig{
		Name:    r.Name,
		Store:   r.Store.Clone(),
		Devices: make([]*Device, len(r.Devices)),
	}
	for i, d := range r.Devices {
		c.Devices[i] = d.Clone()
	}
	return c
}
