package windowing

// ParzenWindow is the triangular window peaking at the centre
type ParzenWindow struct {
	coefficients
}

// NewParzen creates a new triangular window
func NewParzen(size int) *ParzenWindow {
	p := &ParzenWindow{coefficients: make(coefficients, size)}
	for i := range size {
		v := 2 * position(i, size)
		if v > 1 {
			v = 2 - v
		}
		p.coefficients[i] = v
	}
	return p
}

func (p *ParzenWindow) GetType() Type { return Parzen }
