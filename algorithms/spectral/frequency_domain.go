package spectral

import (
	"fmt"
	"math/cmplx"

	"github.com/RyanBlaney/sonido-mapping/algorithms/windowing"
)

// View selects the pair of series a frequency-domain transform is shown as
type View int

const (
	RealImaginary View = iota
	AmplitudePhase
)

func (v View) String() string {
	switch v {
	case RealImaginary:
		return "real_imaginary"
	case AmplitudePhase:
		return "amplitude_phase"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// FrequencyDomain transforms the first n samples (mean removed, windowed) and
// returns bins 0..n/2-1 as real/imaginary or amplitude/phase series.
func FrequencyDomain(samples []float64, window windowing.Type, view View) (first, second []float64, err error) {
	n, err := TransformLength(len(samples))
	if err != nil {
		return nil, nil, err
	}
	seq, err := prepare(samples, n, window)
	if err != nil {
		return nil, nil, err
	}
	spectrum := NewFFT().Compute(seq)

	first = make([]float64, n/2)
	second = make([]float64, n/2)
	for k := range n / 2 {
		switch view {
		case RealImaginary:
			first[k], second[k] = real(spectrum[k]), imag(spectrum[k])
		case AmplitudePhase:
			first[k], second[k] = cmplx.Abs(spectrum[k]), cmplx.Phase(spectrum[k])
		default:
			return nil, nil, fmt.Errorf("unknown view %v", view)
		}
	}
	return first, second, nil
}
