package analysis

import (
	"fmt"

	"github.com/google/uuid"
)

// ChangeKind says what part of the session state an operation touched
type ChangeKind int

const (
	ChangeEvents ChangeKind = iota
	ChangeDatum
	ChangeBuffer
	ChangeSelection
	ChangeSettings
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeEvents:
		return "events"
	case ChangeDatum:
		return "datum"
	case ChangeBuffer:
		return "buffer"
	case ChangeSelection:
		return "selection"
	case ChangeSettings:
		return "settings"
	default:
		return fmt.Sprintf("change(%d)", int(k))
	}
}

// Change is sent to listeners after an operation returns.
type Change struct {
	Session uuid.UUID
	Kind    ChangeKind
}

// Listener receives changes. Listeners run after the session lock is
// released and may call back into the session.
type Listener func(Change)

// Subscribe registers l for every later change
func (s *Session) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Session) notify(kinds []ChangeKind) {
	if len(kinds) == 0 {
		return
	}
	s.mu.Lock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, k := range kinds {
		for _, l := range listeners {
			l(Change{Session: s.id, Kind: k})
		}
	}
}
