package beats

import (
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-mapping/rig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repeated builds a two-channel buffer holding count copies of pattern on
// channel 0 and the negated pattern on channel 1.
func repeated(pattern []float64, count int) *rig.SampleBuffer {
	b := rig.NewFloatBuffer(2, len(pattern)*count, 1000)
	for k := range count {
		for i, v := range pattern {
			b.SetValue(k*len(pattern)+i, 0, v)
			b.SetValue(k*len(pattern)+i, 1, -v)
		}
	}
	return b
}

func TestAverageIdenticalBeatsReturnsTheBeat(t *testing.T) {
	pattern := []float64{0, 1.5, 7, -3, 2, 0.25, 0, -1}
	b := repeated(pattern, 5)
	divisions := []int{8, 16, 24, 32}
	beats, err := Segment(rig.SearchWindow{Start: 0, End: b.NumberOfSamples() - 1, Divisions: divisions}, 5)
	require.NoError(t, err)

	out, err := Average(b, beats, nil, 0)
	require.NoError(t, err)

	require.Equal(t, len(pattern), out.NumberOfSamples())
	assert.InDeltaSlice(t, pattern, out.Channel(0), 1e-12)
	for i, v := range out.Channel(1) {
		assert.InDelta(t, -pattern[i], v, 1e-12)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, out.Times)
}

func TestAverageExcludedBeatHasNoEffect(t *testing.T) {
	b := rig.NewFloatBuffer(1, 30, 500)
	for i := range 30 {
		b.SetValue(i, 0, math.Sin(float64(i)))
	}
	// wreck the middle beat so any leak shows up
	for i := 10; i < 20; i++ {
		b.SetValue(i, 0, 1e6)
	}
	all := []rig.Beat{{Start: 0, End: 9}, {Start: 10, End: 19}, {Start: 20, End: 29}}
	without := []rig.Beat{all[0], all[2]}

	got, err := Average(b, all, func(_, beat int) bool { return beat == 1 }, 0)
	require.NoError(t, err)
	want, err := Average(b, without, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, want.Channel(0), got.Channel(0))
}

func TestAverageUnequalBeatsAlignOnStart(t *testing.T) {
	b := rig.NewFloatBuffer(1, 7, 100)
	b.SetChannel(0, 0, []float64{1, 1, 1, 1, 3, 3, 0})
	beats := []rig.Beat{{Start: 0, End: 3}, {Start: 4, End: 5}}

	out, err := Average(b, beats, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 1, 1}, out.Channel(0))
}

func TestAverageAllExcludedPositionsAreZero(t *testing.T) {
	b := repeated([]float64{4, 4}, 2)
	beats := []rig.Beat{{Start: 0, End: 1}, {Start: 2, End: 3}}

	out, err := Average(b, beats, func(ch, _ int) bool { return ch == 1 }, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4}, out.Channel(0))
	assert.Equal(t, []float64{0, 0}, out.Channel(1))
}

func TestAverageBudget(t *testing.T) {
	b := repeated([]float64{1, 2, 3, 4}, 2)
	beats := []rig.Beat{{Start: 0, End: 3}, {Start: 4, End: 7}}
	before := b.Clone()

	_, err := Average(b, beats, nil, 7)
	assert.ErrorIs(t, err, rig.ErrAllocationFailure)
	assert.Equal(t, before, b)

	_, err = Average(b, beats, nil, 8)
	assert.NoError(t, err)
}

func TestCorrectBaselineFlattensLinearTrend(t *testing.T) {
	b := rig.NewFloatBuffer(1, 100, 500)
	for i := range 100 {
		b.SetValue(i, 0, 3+0.5*float64(i))
	}
	beats, err := Segment(rig.SearchWindow{Start: 10, End: 89}, 4)
	require.NoError(t, err)

	out, err := CorrectBaseline(b, beats, 0)
	require.NoError(t, err)

	assert.Equal(t, 80, out.NumberOfSamples())
	assert.Equal(t, 0, out.Times[0])
	assert.Equal(t, 79, out.End)
	for _, v := range out.Channel(0) {
		assert.InDelta(t, 0, v, 1e-9)
	}
	// input untouched
	assert.Equal(t, 3.0, b.Value(0, 0))
}

func TestCorrectBaselineEndpointsTrendToZero(t *testing.T) {
	b := rig.NewFloatBuffer(2, 40, 500)
	for i := range 40 {
		b.SetValue(i, 0, math.Sin(float64(i)/3)+10)
		b.SetValue(i, 1, float64(i*i))
	}
	beats := []rig.Beat{{Start: 0, End: 19}, {Start: 20, End: 39}}

	out, err := CorrectBaseline(b, beats, 0)
	require.NoError(t, err)

	for ch := range 2 {
		for _, beat := range beats {
			assert.InDelta(t, 0, out.Value(beat.Start, ch), 1e-9)
			assert.InDelta(t, 0, out.Value(beat.End, ch), 1e-9)
		}
	}
}

func TestCorrectBaselineAveragesAroundEndpoints(t *testing.T) {
	b := rig.NewFloatBuffer(1, 9, 100)
	b.SetChannel(0, 0, []float64{4, 2, 0, 0, 0, 0, 0, 6, 9})
	beats := []rig.Beat{{Start: 1, End: 7}}

	out, err := CorrectBaseline(b, beats, 2)
	require.NoError(t, err)

	// start mean (4+2+0)/3 = 2, end mean (0+6+9)/3 = 5
	got := out.Channel(0)
	assert.InDelta(t, 0, got[0], 1e-12)
	assert.InDelta(t, 1, got[6], 1e-12)
	assert.InDelta(t, -3.5, got[3], 1e-12)
}

func TestCorrectBaselineRejectsBeatsOutsideBuffer(t *testing.T) {
	b := rig.NewFloatBuffer(1, 10, 100)
	_, err := CorrectBaseline(b, []rig.Beat{{Start: 5, End: 10}}, 0)
	assert.Error(t, err)
	_, err = CorrectBaseline(b, nil, 0)
	assert.Error(t, err)
}
