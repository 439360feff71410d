// Package datum picks the session-wide time-zero reference.
package datum

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-mapping/rig"
)

// ErrNoEventsForDatum is returned when automatic resolution finds no device
// with events. The datum is left unchanged.
var ErrNoEventsForDatum = errors.New("no events to resolve datum")

// Mode selects how the datum is chosen
type Mode int

const (
	Automatic Mode = iota
	Fixed
)

func (m Mode) String() string {
	switch m {
	case Automatic:
		return "automatic"
	case Fixed:
		return "fixed"
	default:
		return fmt.Sprintf("datum_mode(%d)", int(m))
	}
}

// Valid reports whether m is inside the mode domain
func (m Mode) Valid() bool {
	return m == Automatic || m == Fixed
}

// Resolve returns the datum for mode. Fixed keeps current. Automatic returns
// the earliest first event over all devices, skipping devices without events.
func Resolve(mode Mode, current int, devices []*rig.Device) (int, error) {
	switch mode {
	case Fixed:
		return current, nil
	case Automatic:
	default:
		return current, fmt.Errorf("unknown datum mode %v", mode)
	}

	found := false
	earliest := current
	for _, d := range devices {
		if d.Events == nil {
			continue
		}
		first, ok := d.Events.First()
		if !ok {
			continue
		}
		if !found || first.Time < earliest {
			earliest = first.Time
			found = true
		}
	}
	if !found {
		return current, ErrNoEventsForDatum
	}
	return earliest, nil
}
