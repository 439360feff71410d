package datum

import (
	"testing"

	"github.com/RyanBlaney/sonido-mapping/rig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func device(times ...int) *rig.Device {
	d := &rig.Device{Events: rig.NewEventList()}
	d.Events.Replace(times, rig.Undecided)
	return d
}

func TestAutomaticPicksEarliestFirstEvent(t *testing.T) {
	devices := []*rig.Device{device(310, 500), device(), device(290, 295), {}}

	got, err := Resolve(Automatic, 333, devices)
	require.NoError(t, err)
	assert.Equal(t, 290, got)
}

func TestAutomaticWithoutEventsKeepsDatum(t *testing.T) {
	got, err := Resolve(Automatic, 333, []*rig.Device{device(), device()})
	assert.ErrorIs(t, err, ErrNoEventsForDatum)
	assert.Equal(t, 333, got)
}

func TestFixedKeepsDatum(t *testing.T) {
	got, err := Resolve(Fixed, 120, []*rig.Device{device(5)})
	require.NoError(t, err)
	assert.Equal(t, 120, got)

	_, err = Resolve(Mode(4), 120, nil)
	assert.Error(t, err)
	assert.False(t, Mode(4).Valid())
}
