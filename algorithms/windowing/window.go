// Package windowing holds the data windows applied to a channel before a
// Fourier transform.
package windowing

import "fmt"

// Type selects a data window
type Type int

const (
	Square Type = iota
	Hamming
	Parzen
	Welch
)

func (t Type) String() string {
	switch t {
	case Square:
		return "square"
	case Hamming:
		return "hamming"
	case Parzen:
		return "parzen"
	case Welch:
		return "welch"
	default:
		return fmt.Sprintf("window(%d)", int(t))
	}
}

// Window is a fixed-size set of coefficients
type Window interface {
	ApplyInPlace(signal []float64) error
	GetCoefficients() []float64
	GetSize() int
	GetType() Type
}

var constructors = map[Type]func(size int) Window{
	Square:  func(size int) Window { return NewRectangular(size) },
	Hamming: func(size int) Window { return NewHamming(size) },
	Parzen:  func(size int) Window { return NewParzen(size) },
	Welch:   func(size int) Window { return NewWelch(size) },
}

// New creates the window of type t for size samples
func New(t Type, size int) (Window, error) {
	c, ok := constructors[t]
	if !ok {
		return nil, fmt.Errorf("unknown window type %v", t)
	}
	if size < 1 {
		return nil, fmt.Errorf("window size %d", size)
	}
	return c(size), nil
}

// coefficients is the storage shared by every window
type coefficients []float64

func (c coefficients) ApplyInPlace(signal []float64) error {
	if len(signal) != len(c) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), len(c))
	}
	for i := range signal {
		signal[i] *= c[i]
	}
	return nil
}

func (c coefficients) GetCoefficients() []float64 {
	coeffs := make([]float64, len(c))
	copy(coeffs, c)
	return coeffs
}

func (c coefficients) GetSize() int {
	return len(c)
}

// position maps sample i of a size-point window onto (0, 1), excluding the
// end points so no sample is zeroed entirely.
func position(i, size int) float64 {
	return float64(i+1) / float64(size+1)
}
