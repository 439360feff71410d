package rig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleBufferInterleaving(t *testing.T) {
	b := NewShortBuffer(3, 4, 1000)
	b.SetValue(2, 1, 42)

	assert.Equal(t, int16(42), b.ShortValues[2*3+1])
	assert.Equal(t, 42.0, b.Value(2, 1))
	assert.Equal(t, []float64{0, 0, 42, 0}, b.Channel(1))
	assert.Equal(t, 4, b.ActiveLength())
	require.NoError(t, b.Validate())
}

func TestSampleBufferValidate(t *testing.T) {
	b := NewFloatBuffer(2, 5, 500)
	b.Times[3] = b.Times[2]
	assert.Error(t, b.Validate())

	b = NewFloatBuffer(2, 5, 500)
	b.End = 5
	assert.Error(t, b.Validate())

	b = NewFloatBuffer(2, 5, 500)
	b.FloatValues = b.FloatValues[:9]
	assert.Error(t, b.Validate())
}

func TestSampleBufferCropRebasesTimes(t *testing.T) {
	b := NewShortBuffer(2, 10, 250)
	for s := range 10 {
		b.SetValue(s, 0, float64(s))
		b.SetValue(s, 1, float64(-s))
	}

	c := b.Crop(3, 6)

	assert.Equal(t, FloatValue, c.ValueType)
	assert.Equal(t, []int{0, 1, 2, 3}, c.Times)
	assert.Equal(t, []float64{3, 4, 5, 6}, c.Channel(0))
	assert.Equal(t, []float64{-3, -4, -5, -6}, c.Channel(1))
	assert.Equal(t, 0, c.Start)
	assert.Equal(t, 3, c.End)
}

func TestSampleBufferCloneIsIndependent(t *testing.T) {
	b := NewFloatBuffer(1, 3, 100)
	c := b.Clone()
	c.SetValue(0, 0, 7)
	c.Times[0] = 9

	assert.Equal(t, 0.0, b.Value(0, 0))
	assert.Equal(t, 0, b.Times[0])
}

func TestBufferStoreReplaceAllIsAllOrNothing(t *testing.T) {
	s := NewBufferStore()
	a := s.Add(NewFloatBuffer(1, 4, 100))
	b := s.Add(NewFloatBuffer(1, 4, 100))
	origA, origB := s.Get(a), s.Get(b)

	err := s.ReplaceAll(map[BufferID]*SampleBuffer{
		a:  NewFloatBuffer(1, 2, 100),
		99: NewFloatBuffer(1, 2, 100),
	})
	require.ErrorIs(t, err, ErrUnknownBuffer)
	assert.Same(t, origA, s.Get(a))
	assert.Same(t, origB, s.Get(b))

	next := NewFloatBuffer(1, 2, 100)
	require.NoError(t, s.Replace(b, next))
	assert.Same(t, next, s.Get(b))
	assert.Equal(t, []BufferID{a, b}, s.IDs())
}

func TestBufferStoreReserve(t *testing.T) {
	s := NewBufferStore()
	require.NoError(t, s.Reserve(4, 1_000_000))

	s.MaxSamples = 1000
	require.NoError(t, s.Reserve(4, 250))
	assert.ErrorIs(t, s.Reserve(4, 251), ErrAllocationFailure)
}
