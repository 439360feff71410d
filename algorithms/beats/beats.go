// Package beats splits a search window into beats, removes a per-beat
// baseline and averages beats into one.
package beats

import (
	"fmt"

	"github.com/RyanBlaney/sonido-mapping/algorithms/common"
	"github.com/RyanBlaney/sonido-mapping/rig"
)

// Segment splits the window into n beats
func Segment(w rig.SearchWindow, n int) ([]rig.Beat, error) {
	return w.Beats(n)
}

func checkBeats(b *rig.SampleBuffer, beats []rig.Beat) error {
	if len(beats) == 0 {
		return fmt.Errorf("no beats")
	}
	n := b.NumberOfSamples()
	for k, beat := range beats {
		if beat.Start < 0 || beat.End >= n || beat.Start > beat.End {
			return fmt.Errorf("beat %d [%d,%d] outside buffer of %d samples", k+1, beat.Start, beat.End, n)
		}
	}
	return nil
}

// CorrectBaseline removes, for every beat and channel, the straight line
// through the means of averageWidth samples centred on the beat's first and
// last sample. The result covers beats[0].Start to the last beat's End with
// times starting at 0. b is not modified.
func CorrectBaseline(b *rig.SampleBuffer, beats []rig.Beat, averageWidth int) (*rig.SampleBuffer, error) {
	if err := checkBeats(b, beats); err != nil {
		return nil, err
	}
	first, last := beats[0].Start, beats[len(beats)-1].End
	out := b.Crop(first, last)

	for ch := range b.NumberOfSignals {
		samples := b.Channel(ch)

		// means come from the uncorrected channel so beats sharing a
		// boundary window do not depend on each other
		startMeans := make([]float64, len(beats))
		endMeans := make([]float64, len(beats))
		for k, beat := range beats {
			startMeans[k] = common.WindowMean(samples, beat.Start, averageWidth)
			endMeans[k] = common.WindowMean(samples, beat.End, averageWidth)
		}

		for k, beat := range beats {
			span := float64(beat.End - beat.Start)
			for i := beat.Start; i <= beat.End; i++ {
				t := 0.0
				if span > 0 {
					t = float64(i-beat.Start) / span
				}
				baseline := common.Lerp(startMeans[k], endMeans[k], t)
				out.SetValue(i-first, ch, samples[i]-baseline)
			}
		}
	}
	return out, nil
}

// Average accumulates the beats of every channel positionally into one beat as
// long as the longest beat and divides each position by the number of beats
// that reached it. Beats are aligned on their first sample. A beat for which
// excluded(channel, beat) is true is skipped for that channel; positions no
// beat reached are 0. maxSamples bounds the output and its counters (0 means
// unlimited); exceeding it returns rig.ErrAllocationFailure.
func Average(b *rig.SampleBuffer, beats []rig.Beat, excluded func(channel, beat int) bool, maxSamples int) (*rig.SampleBuffer, error) {
	if err := checkBeats(b, beats); err != nil {
		return nil, err
	}
	longest := 0
	for _, beat := range beats {
		longest = max(longest, beat.Len())
	}
	if maxSamples > 0 && longest*b.NumberOfSignals > maxSamples {
		return nil, fmt.Errorf("%w: averaged beat of %d samples x %d signals exceeds %d",
			rig.ErrAllocationFailure, longest, b.NumberOfSignals, maxSamples)
	}

	out := rig.NewFloatBuffer(b.NumberOfSignals, longest, b.Frequency)
	counts := make([]int, longest)
	sums := make([]float64, longest)

	for ch := range b.NumberOfSignals {
		clear(counts)
		clear(sums)
		for k, beat := range beats {
			if excluded != nil && excluded(ch, k) {
				continue
			}
			for i := beat.Start; i <= beat.End; i++ {
				sums[i-beat.Start] += b.Value(i, ch)
				counts[i-beat.Start]++
			}
		}
		for pos := range longest {
			if counts[pos] > 0 {
				out.SetValue(pos, ch, sums[pos]/float64(counts[pos]))
			}
		}
	}
	return out, nil
}
