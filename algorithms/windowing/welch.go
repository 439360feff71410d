package windowing

// WelchWindow is the parabolic window 1 - x² over x in (-1, 1)
type WelchWindow struct {
	coefficients
}

// NewWelch creates a new Welch window
func NewWelch(size int) *WelchWindow {
	w := &WelchWindow{coefficients: make(coefficients, size)}
	for i := range size {
		arg := 2*position(i, size) - 1
		w.coefficients[i] = 1.0 - arg*arg
	}
	return w
}

func (w *WelchWindow) GetType() Type { return Welch }
