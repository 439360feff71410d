package rig

import "fmt"

// BufferID is a handle to a buffer held by a BufferStore.
type BufferID int

// BufferStore owns the sample buffers of a rig. Devices refer to buffers by
// BufferID, so replacing a slot is seen by every device at once.
type BufferStore struct {
	buffers []*SampleBuffer

	// MaxSamples caps the number of values (samples x signals) a single buffer
	// may hold. Zero means unlimited.
	MaxSamples int
}

// NewBufferStore creates an empty store with no sample budget
func NewBufferStore() *BufferStore {
	return &BufferStore{}
}

// Add stores b and returns its handle.
func (s *BufferStore) Add(b *SampleBuffer) BufferID {
	s.buffers = append(s.buffers, b)
	return BufferID(len(s.buffers) - 1)
}

// Get returns the buffer behind id, or nil.
func (s *BufferStore) Get(id BufferID) *SampleBuffer {
	if int(id) < 0 || int(id) >= len(s.buffers) {
		return nil
	}
	return s.buffers[id]
}

// Len returns the number of slots
func (s *BufferStore) Len() int {
	return len(s.buffers)
}

// IDs returns every handle in slot order
func (s *BufferStore) IDs() []BufferID {
	ids := make([]BufferID, len(s.buffers))
	for i := range s.buffers {
		ids[i] = BufferID(i)
	}
	return ids
}

// Reserve reports ErrAllocationFailure when a buffer of numberOfSignals x
// numberOfSamples values would exceed the store's budget.
func (s *BufferStore) Reserve(numberOfSignals, numberOfSamples int) error {
	if numberOfSignals < 0 || numberOfSamples < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrAllocationFailure, numberOfSignals, numberOfSamples)
	}
	if s.MaxSamples > 0 && numberOfSignals*numberOfSamples > s.MaxSamples {
		return fmt.Errorf("%w: %d values exceed budget of %d",
			ErrAllocationFailure, numberOfSignals*numberOfSamples, s.MaxSamples)
	}
	return nil
}

// Replace swaps the buffer behind id.
func (s *BufferStore) Replace(id BufferID, b *SampleBuffer) error {
	return s.ReplaceAll(map[BufferID]*SampleBuffer{id: b})
}

// ReplaceAll swaps several buffers. Every id is checked first; if any is unknown
// nothing is swapped.
func (s *BufferStore) ReplaceAll(replacements map[BufferID]*SampleBuffer) error {
	for id, b := range replacements {
		if s.Get(id) == nil {
			return fmt.Errorf("%w: %d", ErrUnknownBuffer, id)
		}
		if b == nil {
			return fmt.Errorf("nil replacement for buffer %d", id)
		}
	}
	for id, b := range replacements {
		s.buffers[id] = b
	}
	return nil
}

// Clone deep-copies every buffer; handles stay valid in the copy.
func (s *BufferStore) Clone() *BufferStore {
	c := &BufferStore{
		buffers:    make([]*SampleBuffer, len(s.buffers)),
		MaxSamples: s.MaxSamples,
	}
	for i, b := range s.buffers {
		c.buffers[i] = b.Clone()
	}
	return c
}
