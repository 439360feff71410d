package rig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertNumbered(t *testing.T, l *EventList) {
	t.Helper()
	events := l.Events()
	for i, e := range events {
		assert.Equal(t, i+1, e.Number)
		if i > 0 {
			assert.Less(t, events[i-1].Time, e.Time)
		}
	}
}

func TestEventListReplaceSortsAndNumbers(t *testing.T) {
	l := NewEventList()
	l.Replace([]int{40, 10, 25, 10}, Undecided)

	assert.Equal(t, []int{10, 25, 40}, l.Times())
	assertNumbered(t, l)

	e, ok := l.At(2)
	require.True(t, ok)
	assert.Equal(t, Event{Time: 25, Number: 2, Status: Undecided}, e)
}

func TestEventListInsertRemove(t *testing.T) {
	l := NewEventList()
	l.Replace([]int{10, 30}, Undecided)

	assert.Equal(t, 2, l.Insert(20, Accepted))
	assert.Equal(t, []int{10, 20, 30}, l.Times())
	assertNumbered(t, l)

	// inserting at an existing time only updates its status
	assert.Equal(t, 3, l.Insert(30, Rejected))
	e, _ := l.At(3)
	assert.Equal(t, Rejected, e.Status)
	assert.Equal(t, 3, l.Len())

	require.True(t, l.Remove(1))
	assert.Equal(t, []int{20, 30}, l.Times())
	assertNumbered(t, l)
	assert.False(t, l.Remove(5))
}

func TestEventListStatus(t *testing.T) {
	l := NewEventList()
	l.Replace([]int{1, 2, 3}, Undecided)

	require.True(t, l.SetStatus(2, Rejected))
	assert.False(t, l.SetStatus(0, Rejected))
	e, _ := l.At(2)
	assert.Equal(t, Rejected, e.Status)

	l.SetAllStatus(Accepted)
	for _, e := range l.Events() {
		assert.Equal(t, Accepted, e.Status)
	}
}

func TestEventListFirstIn(t *testing.T) {
	l := NewEventList()
	l.Replace([]int{5, 15, 25}, Undecided)

	e, ok := l.FirstIn(10, 20)
	require.True(t, ok)
	assert.Equal(t, 15, e.Time)

	_, ok = l.FirstIn(16, 24)
	assert.False(t, ok)

	first, ok := l.First()
	require.True(t, ok)
	assert.Equal(t, 5, first.Time)

	_, ok = NewEventList().First()
	assert.False(t, ok)
}

func TestEventListShiftDropsOutside(t *testing.T) {
	l := NewEventList()
	l.Replace([]int{50, 120, 300, 950}, Accepted)

	l.Shift(-100, 0, 800)

	assert.Equal(t, []int{20, 200}, l.Times())
	assertNumbered(t, l)
}

func TestEventStatusDomain(t *testing.T) {
	assert.True(t, Undecided.Valid())
	assert.False(t, EventStatus(3).Valid())
	assert.Equal(t, "rejected", Rejected.String())
}
