package rig

import "errors"

var (
	// ErrAllocationFailure is returned when growing or duplicating a buffer would
	// exceed the sample budget. The operation is aborted and nothing is swapped.
	ErrAllocationFailure = errors.New("buffer allocation failed")

	// ErrZeroGain is returned when a stored value has to be recovered from a
	// physical one for a channel whose gain is zero.
	ErrZeroGain = errors.New("channel gain is zero")

	// ErrUnknownBuffer is returned for a BufferID the store does not hold.
	ErrUnknownBuffer = errors.New("unknown buffer")

	// ErrShapeMismatch is returned when two buffers must agree on their sample count.
	ErrShapeMismatch = errors.New("buffer shape mismatch")
)
