package rig

import "fmt"

// Beat is one repetition interval, inclusive on both ends.
type Beat struct {
	Start int
	End   int
}

// Len returns the number of samples in the beat
func (b Beat) Len() int {
	return b.End - b.Start + 1
}

// SearchWindow is the sample range analysed, optionally split into beats at
// explicit interior boundaries.
type SearchWindow struct {
	Start     int   `json:"start"`
	End       int   `json:"end"`
	Divisions []int `json:"divisions,omitempty"`
}

// Empty reports whether the window holds no usable range
func (w SearchWindow) Empty() bool {
	return w.Start >= w.End
}

// Validate checks that explicit divisions fit n beats.
func (w SearchWindow) Validate(n int) error {
	if len(w.Divisions) == 0 {
		return nil
	}
	if len(w.Divisions) != n-1 {
		return fmt.Errorf("%d divisions for %d beats", len(w.Divisions), n)
	}
	prev := w.Start
	for i, d := range w.Divisions {
		if d <= prev || d > w.End {
			return fmt.Errorf("division %d at %d outside (%d,%d]", i, d, prev, w.End)
		}
		prev = d
	}
	return nil
}

// Beats splits the window into n beats. Without divisions beat k starts at
// Start + floor((End-Start+1)*k/n), so a window of at least n samples always
// gives n non-empty beats. Beat k ends one sample before beat k+1 starts; the
// last beat ends at End.
func (w SearchWindow) Beats(n int) ([]Beat, error) {
	if n < 1 {
		return nil, fmt.Errorf("beat count %d", n)
	}
	if err := w.Validate(n); err != nil {
		return nil, err
	}
	bounds := make([]int, n+1)
	bounds[0] = w.Start
	bounds[n] = w.End
	for k := 1; k < n; k++ {
		if len(w.Divisions) > 0 {
			bounds[k] = w.Divisions[k-1]
		} else {
			bounds[k] = w.Start + (w.End-w.Start+1)*k/n
		}
	}
	beats := make([]Beat, n)
	for k := range n {
		end := bounds[k+1] - 1
		if k == n-1 {
			end = w.End
		}
		beats[k] = Beat{Start: bounds[k], End: end}
	}
	return beats, nil
}
