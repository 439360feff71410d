package windowing

// Rectangular leaves the signal unchanged
type Rectangular struct {
	coefficients
}

// NewRectangular creates a new rectangular (square) window
func NewRectangular(size int) *Rectangular {
	r := &Rectangular{coefficients: make(coefficients, size)}
	for i := range r.coefficients {
		r.coefficients[i] = 1.0
	}
	return r
}

func (r *Rectangular) GetType() Type { return Square }
