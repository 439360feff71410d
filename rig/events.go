package rig

import (
	"fmt"
	"slices"
	"sort"
)

// EventStatus is the review state of an event or a device.
type EventStatus int

const (
	Accepted EventStatus = iota
	Rejected
	Undecided
)

func (s EventStatus) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Undecided:
		return "undecided"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Valid reports whether s is inside the status domain.
func (s EventStatus) Valid() bool {
	return s >= Accepted && s <= Undecided
}

// Event is a fiducial mark on one channel.
type Event struct {
	Time   int
	Number int
	Status EventStatus
}

// EventList is an ordered sequence of events for one channel. Times are
// strictly increasing and Number is always position+1.
type EventList struct {
	events []Event
}

// NewEventList creates an empty list
func NewEventList() *EventList {
	return &EventList{}
}

// Len returns the number of events
func (l *EventList) Len() int {
	return len(l.events)
}

// Events returns a copy of the events in time order.
func (l *EventList) Events() []Event {
	return slices.Clone(l.events)
}

// Times returns the event times in order.
func (l *EventList) Times() []int {
	out := make([]int, len(l.events))
	for i, e := range l.events {
		out[i] = e.Time
	}
	return out
}

// At returns the event with the given 1-based number.
func (l *EventList) At(number int) (Event, bool) {
	if number < 1 || number > len(l.events) {
		return Event{}, false
	}
	return l.events[number-1], true
}

// First returns the earliest event.
func (l *EventList) First() (Event, bool) {
	return l.At(1)
}

// FirstIn returns the earliest event with start <= Time <= end.
func (l *EventList) FirstIn(start, end int) (Event, bool) {
	i := sort.Search(len(l.events), func(i int) bool { return l.events[i].Time >= start })
	if i < len(l.events) && l.events[i].Time <= end {
		return l.events[i], true
	}
	return Event{}, false
}

// Replace discards the list and fills it with one event per time. Times are
// sorted and duplicates collapse to one event.
func (l *EventList) Replace(times []int, status EventStatus) {
	sorted := slices.Clone(times)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	l.events = make([]Event, len(sorted))
	for i, t := range sorted {
		l.events[i] = Event{Time: t, Status: status}
	}
	l.renumber()
}

// Insert adds an event at time and returns its number. An event already at
// that time has its status updated instead.
func (l *EventList) Insert(time int, status EventStatus) int {
	i, found := slices.BinarySearchFunc(l.events, time, func(e Event, t int) int { return e.Time - t })
	if found {
		l.events[i].Status = status
		return i + 1
	}
	l.events = slices.Insert(l.events, i, Event{Time: time, Status: status})
	l.renumber()
	return i + 1
}

// Remove deletes the event with the given number.
func (l *EventList) Remove(number int) bool {
	if number < 1 || number > len(l.events) {
		return false
	}
	l.events = slices.Delete(l.events, number-1, number)
	l.renumber()
	return true
}

// SetStatus changes the status of one event.
func (l *EventList) SetStatus(number int, status EventStatus) bool {
	if number < 1 || number > len(l.events) {
		return false
	}
	l.events[number-1].Status = status
	return true
}

// SetAllStatus changes the status of every event.
func (l *EventList) SetAllStatus(status EventStatus) {
	for i := range l.events {
		l.events[i].Status = status
	}
}

// Shift moves every event by delta and drops those that land outside [lo, hi].
func (l *EventList) Shift(delta, lo, hi int) {
	kept := l.events[:0]
	for _, e := range l.events {
		e.Time += delta
		if e.Time < lo || e.Time > hi {
			continue
		}
		kept = append(kept, e)
	}
	l.events = kept
	l.renumber()
}

// Clear removes every event
func (l *EventList) Clear() {
	l.events = nil
}

// Clone returns an independent copy.
func (l *EventList) Clone() *EventList {
	return &EventList{events: slices.Clone(l.events)}
}

func (l *EventList) renumber() {
	for i := range l.events {
		l.events[i].Number = i + 1
	}
}
