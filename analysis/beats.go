package analysis

import (
	"fmt"
	"slices"

	"github.com/RyanBlaney/sonido-mapping/algorithms/beats"
	"github.com/RyanBlaney/sonido-mapping/logging"
	"github.com/RyanBlaney/sonido-mapping/rig"
)

// replaceBuffers builds a replacement for every buffer of the processed rig
// and swaps them together. Nothing is swapped if any build fails.
func (s *Session) replaceBuffers(build func(id rig.BufferID, b *rig.SampleBuffer) (*rig.SampleBuffer, error)) error {
	store := s.processed.Store
	next := make(map[rig.BufferID]*rig.SampleBuffer, store.Len())
	for _, id := range store.IDs() {
		nb, err := build(id, store.Get(id))
		if err != nil {
			return fmt.Errorf("buffer %d: %w", id, err)
		}
		next[id] = nb
	}
	return store.ReplaceAll(next)
}

// rebase moves the window-relative settings after the buffer was cropped to
// start at old sample start and hold length samples.
func (s *Session) rebase(start, length int) {
	st := &s.settings
	clampSample := func(v int) int { return max(0, min(v-start, length-1)) }

	st.SearchStart, st.SearchEnd = 0, length-1
	st.Datum = clampSample(st.Datum)
	st.PotentialTime = clampSample(st.PotentialTime)
	if len(st.Divisions) > 0 {
		shifted := slices.Clone(st.Divisions)
		for i := range shifted {
			shifted[i] -= start
		}
		st.Divisions = shifted
	}
}

func (s *Session) segment() ([]rig.Beat, error) {
	w := s.settings.Window()
	bs, err := beats.Segment(w, max(s.settings.BeatCount, 1))
	if err != nil {
		return nil, fmt.Errorf("segment search window: %w", err)
	}
	return bs, nil
}

// CorrectBaseline removes a straight baseline from every beat of every
// channel and crops the processed buffers to the search window, which then
// starts at 0. Events outside the window are dropped.
func (s *Session) CorrectBaseline() (Result, error) {
	return s.run("correct_baseline", func(res *Result) ([]ChangeKind, error) {
		if _, err := s.ensureProcessed(res); err != nil {
			return nil, err
		}
		bs, err := s.segment()
		if err != nil {
			return nil, err
		}
		w := s.settings.Window()
		length := w.End - w.Start + 1

		err = s.replaceBuffers(func(_ rig.BufferID, b *rig.SampleBuffer) (*rig.SampleBuffer, error) {
			if err := s.processed.Store.Reserve(b.NumberOfSignals, length); err != nil {
				return nil, err
			}
			return beats.CorrectBaseline(b, bs, s.settings.AverageWidth)
		})
		if err != nil {
			return nil, err
		}

		for _, d := range s.processed.Devices {
			d.Events.Shift(-w.Start, 0, length-1)
		}
		s.rebase(w.Start, length)
		if err := s.processed.UpdateSignalRange(); err != nil {
			return nil, err
		}
		res.Channels = len(s.processed.Devices)
		return []ChangeKind{ChangeBuffer, ChangeEvents}, nil
	})
}

// AverageBeats replaces every processed buffer with the average of its beats.
// For each channel a beat whose first event is Rejected does not contribute.
// Event lists are cleared and the beat count returns to 1.
func (s *Session) AverageBeats() (Result, error) {
	return s.run("average_beats", func(res *Result) ([]ChangeKind, error) {
		if _, err := s.ensureProcessed(res); err != nil {
			return nil, err
		}
		bs, err := s.segment()
		if err != nil {
			return nil, err
		}

		byChannel := make(map[rig.ChannelRef][]*rig.Device)
		for _, d := range s.processed.Devices {
			byChannel[d.Channel] = append(byChannel[d.Channel], d)
		}

		skipped := 0
		err = s.replaceBuffers(func(id rig.BufferID, b *rig.SampleBuffer) (*rig.SampleBuffer, error) {
			excluded := func(ch, k int) bool {
				for _, d := range byChannel[rig.ChannelRef{Buffer: id, Index: ch}] {
					if e, ok := d.Events.FirstIn(bs[k].Start, bs[k].End); ok && e.Status == rig.Rejected {
						skipped++
						return true
					}
				}
				return false
			}
			return beats.Average(b, bs, excluded, s.processed.Store.MaxSamples)
		})
		if err != nil {
			return nil, err
		}

		length := 0
		for _, b := range bs {
			length = max(length, b.Len())
		}
		for _, d := range s.processed.Devices {
			d.Events.Clear()
		}
		s.rebase(bs[0].Start, length)
		s.settings.BeatCount = 1
		s.settings.Divisions = nil
		if err := s.processed.UpdateSignalRange(); err != nil {
			return nil, err
		}
		res.Channels = len(s.processed.Devices)
		if skipped > 0 {
			s.logger.Info("rejected beats left out of average", logging.Fields{"skipped": skipped})
		}
		return []ChangeKind{ChangeBuffer, ChangeEvents}, nil
	})
}
