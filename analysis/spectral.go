package analysis

import (
	"fmt"

	"github.com/RyanBlaney/sonido-mapping/algorithms/spectral"
	"github.com/RyanBlaney/sonido-mapping/rig"
)

// activeSamples returns the calibrated samples of a device over its buffer's
// usable range.
func activeSamples(r *rig.Rig, name string) ([]float64, *rig.SampleBuffer, error) {
	d, ok := r.DeviceByName(name)
	if !ok {
		return nil, nil, fmt.Errorf("unknown device %q", name)
	}
	samples, err := r.Samples(d)
	if err != nil {
		return nil, nil, err
	}
	b := r.Buffer(d)
	return samples[b.Start : b.End+1], b, nil
}

// Filter applies Fourier filtering to every channel of the processed rig over
// the usable range. Calibration is left as is.
func (s *Session) Filter(opts spectral.FilterOptions) (Result, error) {
	return s.run("filter", func(res *Result) ([]ChangeKind, error) {
		if _, err := s.ensureProcessed(res); err != nil {
			return nil, err
		}
		err := s.replaceBuffers(func(_ rig.BufferID, b *rig.SampleBuffer) (*rig.SampleBuffer, error) {
			if err := s.processed.Store.Reserve(b.NumberOfSignals, b.NumberOfSamples()); err != nil {
				return nil, err
			}
			nb := b.Clone()
			for ch := range b.NumberOfSignals {
				active := b.Channel(ch)[b.Start : b.End+1]
				if _, err := spectral.Filter(active, b.Frequency, opts); err != nil {
					return nil, fmt.Errorf("channel %d: %w", ch, err)
				}
				nb.SetChannel(ch, b.Start, active)
			}
			return nb, nil
		})
		if err != nil {
			return nil, err
		}
		if err := s.processed.UpdateSignalRange(); err != nil {
			return nil, err
		}
		res.Channels = len(s.processed.Devices)
		return []ChangeKind{ChangeBuffer}, nil
	})
}

// PowerSpectrum replaces every processed buffer with the power spectrum of
// its channels. Sample k of the result is bin k and the buffer frequency is
// the transform's bins per Hz. Events are cleared and the beat count returns
// to 1.
func (s *Session) PowerSpectrum() (Result, error) {
	return s.run("power_spectrum", func(res *Result) ([]ChangeKind, error) {
		if _, err := s.ensureProcessed(res); err != nil {
			return nil, err
		}
		ps := spectral.NewPowerSpectrum(s.config.FourierWindow)
		bins := 0

		err := s.replaceBuffers(func(_ rig.BufferID, b *rig.SampleBuffer) (*rig.SampleBuffer, error) {
			n, err := spectral.TransformLength(b.ActiveLength())
			if err != nil {
				return nil, err
			}
			if err := s.processed.Store.Reserve(b.NumberOfSignals, n/2); err != nil {
				return nil, err
			}
			nb := rig.NewFloatBuffer(b.NumberOfSignals, n/2, spectral.Resolution(n, b.Frequency))
			for ch := range b.NumberOfSignals {
				power, err := ps.Compute(b.Channel(ch)[b.Start : b.End+1])
				if err != nil {
					return nil, fmt.Errorf("channel %d: %w", ch, err)
				}
				nb.SetChannel(ch, 0, power)
			}
			bins = max(bins, n/2)
			return nb, nil
		})
		if err != nil {
			return nil, err
		}

		for _, d := range s.processed.Devices {
			d.Events.Clear()
		}
		s.settings.BeatCount = 1
		s.settings.Divisions = nil
		s.settings.SearchStart, s.settings.SearchEnd = 0, bins-1
		s.settings.Datum, s.settings.PotentialTime = 0, 0
		if err := s.processed.UpdateSignalRange(); err != nil {
			return nil, err
		}
		res.Channels = len(s.processed.Devices)
		return []ChangeKind{ChangeBuffer, ChangeEvents}, nil
	})
}

// FrequencySeries is a frequency-domain view of one device
type FrequencySeries struct {
	First      []float64
	Second     []float64
	View       spectral.View
	Resolution float64
}

// FrequencyDomain transforms the named device of the active rig without
// changing any buffer.
func (s *Session) FrequencyDomain(name string, view spectral.View) (*FrequencySeries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	samples, b, err := activeSamples(s.active(), name)
	if err != nil {
		return nil, err
	}
	first, second, err := spectral.FrequencyDomain(samples, s.config.FourierWindow, view)
	if err != nil {
		return nil, fmt.Errorf("device %q: %w", name, err)
	}
	n, _ := spectral.TransformLength(len(samples))
	return &FrequencySeries{
		First:      first,
		Second:     second,
		View:       view,
		Resolution: spectral.Resolution(n, b.Frequency),
	}, nil
}

// CrossCorrelate correlates two devices of the active rig over their usable ranges.
func (s *Session) CrossCorrelate(a, b string) (*spectral.Correlation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	x, _, err := activeSamples(s.active(), a)
	if err != nil {
		return nil, err
	}
	y, _, err := activeSamples(s.active(), b)
	if err != nil {
		return nil, err
	}
	return spectral.CrossCorrelation(x, y, s.config.FourierWindow)
}

// AutoCorrelate correlates a device of the active rig with itself.
func (s *Session) AutoCorrelate(name string) (*spectral.Correlation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	x, _, err := activeSamples(s.active(), name)
	if err != nil {
		return nil, err
	}
	return spectral.AutoCorrelation(x, s.config.FourierWindow)
}

// DominantFrequency summarises the power spectrum of the named device of the
// active rig. bandHz is the half width used for the concentration measure.
func (s *Session) DominantFrequency(name string, bandHz float64) (spectral.Peak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	samples, b, err := activeSamples(s.active(), name)
	if err != nil {
		return spectral.Peak{}, err
	}
	power, err := spectral.NewPowerSpectrum(s.config.FourierWindow).Compute(samples)
	if err != nil {
		return spectral.Peak{}, fmt.Errorf("device %q: %w", name, err)
	}
	peak, err := spectral.DominantFrequency(power, spectral.Resolution(len(power)*2, b.Frequency), bandHz)
	if err != nil {
		return spectral.Peak{}, fmt.Errorf("device %q: %w", name, err)
	}
	return peak, nil
}
