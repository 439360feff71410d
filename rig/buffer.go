package rig

import (
	"fmt"
	"slices"
)

// ValueType is the storage type of a SampleBuffer.
type ValueType int

const (
	ShortIntValue ValueType = iota
	FloatValue
)

func (v ValueType) String() string {
	switch v {
	case ShortIntValue:
		return "short_int"
	case FloatValue:
		return "float"
	default:
		return "unknown"
	}
}

// SampleBuffer holds interleaved samples for several channels.
//
// Sample s of channel c lives at index s*NumberOfSignals+c of ShortValues or
// FloatValues, depending on ValueType. Times holds one sample index per sample
// and may contain gaps for irregular sampling. Start and End delimit the usable
// sub-range (inclusive).
type SampleBuffer struct {
	ValueType       ValueType
	Frequency       float64
	Times           []int
	NumberOfSignals int
	ShortValues     []int16
	FloatValues     []float64
	Start           int
	End             int
}

// NewFloatBuffer allocates a zeroed float buffer with consecutive times.
func NewFloatBuffer(numberOfSignals, numberOfSamples int, frequency float64) *SampleBuffer {
	b := &SampleBuffer{
		ValueType:       FloatValue,
		Frequency:       frequency,
		Times:           make([]int, numberOfSamples),
		NumberOfSignals: numberOfSignals,
		FloatValues:     make([]float64, numberOfSignals*numberOfSamples),
		Start:           0,
		End:             numberOfSamples - 1,
	}
	for i := range b.Times {
		b.Times[i] = i
	}
	return b
}

// NewShortBuffer allocates a zeroed 16-bit integer buffer with consecutive times.
func NewShortBuffer(numberOfSignals, numberOfSamples int, frequency float64) *SampleBuffer {
	b := &SampleBuffer{
		ValueType:       ShortIntValue,
		Frequency:       frequency,
		Times:           make([]int, numberOfSamples),
		NumberOfSignals: numberOfSignals,
		ShortValues:     make([]int16, numberOfSignals*numberOfSamples),
		Start:           0,
		End:             numberOfSamples - 1,
	}
	for i := range b.Times {
		b.Times[i] = i
	}
	return b
}

// NumberOfSamples returns the number of samples per channel
func (b *SampleBuffer) NumberOfSamples() int {
	return len(b.Times)
}

// ActiveLength returns the number of samples in [Start, End]
func (b *SampleBuffer) ActiveLength() int {
	if b.End < b.Start {
		return 0
	}
	return b.End - b.Start + 1
}

// Value returns the stored (uncalibrated) value of one channel at one sample.
func (b *SampleBuffer) Value(sample, channel int) float64 {
	idx := sample*b.NumberOfSignals + channel
	if b.ValueType == ShortIntValue {
		return float64(b.ShortValues[idx])
	}
	return b.FloatValues[idx]
}

// SetValue stores v for one channel at one sample. Short buffers truncate toward zero.
func (b *SampleBuffer) SetValue(sample, channel int, v float64) {
	idx := sample*b.NumberOfSignals + channel
	if b.ValueType == ShortIntValue {
		b.ShortValues[idx] = int16(v)
		return
	}
	b.FloatValues[idx] = v
}

// Channel copies the stored values of one channel over the whole buffer.
func (b *SampleBuffer) Channel(channel int) []float64 {
	n := b.NumberOfSamples()
	out := make([]float64, n)
	for s := range n {
		out[s] = b.Value(s, channel)
	}
	return out
}

// SetChannel overwrites one channel starting at sample offset.
func (b *SampleBuffer) SetChannel(channel, offset int, values []float64) {
	for i, v := range values {
		b.SetValue(offset+i, channel, v)
	}
}

// Validate checks the structural invariants of the buffer.
func (b *SampleBuffer) Validate() error {
	if b.NumberOfSignals <= 0 {
		return fmt.Errorf("buffer has %d signals", b.NumberOfSignals)
	}
	n := b.NumberOfSamples()
	want := n * b.NumberOfSignals
	switch b.ValueType {
	case ShortIntValue:
		if len(b.ShortValues) != want {
			return fmt.Errorf("short buffer holds %d values, want %d", len(b.ShortValues), want)
		}
	case FloatValue:
		if len(b.FloatValues) != want {
			return fmt.Errorf("float buffer holds %d values, want %d", len(b.FloatValues), want)
		}
	default:
		return fmt.Errorf("unknown value type %d", b.ValueType)
	}
	for i := 1; i < n; i++ {
		if b.Times[i] <= b.Times[i-1] {
			return fmt.Errorf("times not increasing at sample %d", i)
		}
	}
	if n > 0 && (b.Start < 0 || b.End >= n || b.Start > b.End) {
		return fmt.Errorf("usable range [%d,%d] outside [0,%d)", b.Start, b.End, n)
	}
	return nil
}

// Clone returns a deep copy of the buffer.
func (b *SampleBuffer) Clone() *SampleBuffer {
	c := *b
	c.Times = slices.Clone(b.Times)
	c.ShortValues = slices.Clone(b.ShortValues)
	c.FloatValues = slices.Clone(b.FloatValues)
	return &c
}

// Crop returns a float copy of samples [start, end] with times re-based to 0.
func (b *SampleBuffer) Crop(start, end int) *SampleBuffer {
	n := end - start + 1
	c := NewFloatBuffer(b.NumberOfSignals, n, b.Frequency)
	for s := range n {
		for ch := range b.NumberOfSignals {
			c.FloatValues[s*b.NumberOfSignals+ch] = b.Value(start+s, ch)
		}
	}
	return c
}
