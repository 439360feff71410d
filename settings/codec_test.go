package settings

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-mapping/algorithms/datum"
	"github.com/RyanBlaney/sonido-mapping/algorithms/detection"
	"github.com/RyanBlaney/sonido-mapping/rig"
)

func sample() (Settings, []Channel) {
	s := Settings{
		Datum:             250,
		CalculateEvents:   true,
		Detection:         detection.Level,
		EventNumber:       2,
		BeatCount:         4,
		PotentialTime:     300,
		MinimumSeparation: 20,
		ThresholdPercent:  75,
		DatumType:         datum.Fixed,
		EditOrder:         ByBeat,
		SignalOrder:       ByEvent,
		SearchStart:       100,
		SearchEnd:         900,
		Level:             50.5,
		AverageWidth:      5,
	}
	channels := []Channel{
		{Status: rig.Accepted, RangeMin: -1.5, RangeMax: 2.25, Events: []rig.Event{
			{Time: 120, Number: 1, Status: rig.Accepted},
			{Time: 340, Number: 2, Status: rig.Rejected},
		}},
		{Status: rig.Rejected, RangeMin: 0, RangeMax: 10},
	}
	return s, channels
}

func TestEncodeDecodeLevelBlock(t *testing.T) {
	s, channels := sample()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, channels))

	// fixed fields, level extension, two channel headers, two events
	assert.Equal(t, 49+12+2*16+2*12, buf.Len())

	got, gotChannels, err := Decode(&buf, Settings{}, 2)
	require.NoError(t, err)
	assert.Equal(t, s, got)
	assert.Equal(t, channels[0], gotChannels[0])
	assert.Equal(t, rig.Rejected, gotChannels[1].Status)
	assert.Empty(t, gotChannels[1].Events)
}

func TestEncodeOmitsLevelExtensionForOtherAlgorithms(t *testing.T) {
	s, _ := sample()
	s.Detection = detection.Threshold
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, nil))
	assert.Equal(t, 49, buf.Len())

	base := Settings{Level: 7, AverageWidth: 10, Divisions: []int{300, 500}}
	got, channels, err := Decode(&buf, base, 0)
	require.NoError(t, err)
	assert.Equal(t, detection.Threshold, got.Detection)
	assert.Equal(t, 7.0, got.Level)
	assert.Equal(t, 10, got.AverageWidth)
	assert.Equal(t, []int{300, 500}, got.Divisions)
	assert.Empty(t, channels)
}

func TestLevelExtensionOverridesBase(t *testing.T) {
	s, channels := sample()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, channels))

	got, _, err := Decode(&buf, Settings{Level: 7, AverageWidth: 10}, 2)
	require.NoError(t, err)
	assert.Equal(t, 50.5, got.Level)
	assert.Equal(t, 5, got.AverageWidth)
}

func TestFieldOrderIsLittleEndian(t *testing.T) {
	s, _ := sample()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, nil))
	raw := buf.Bytes()

	assert.Equal(t, uint32(250), binary.LittleEndian.Uint32(raw[0:4]))
	assert.Equal(t, byte(1), raw[4])
	assert.Equal(t, uint32(detection.Level), binary.LittleEndian.Uint32(raw[5:9]))
	assert.Equal(t, uint32(100), binary.LittleEndian.Uint32(raw[41:45]))
	assert.Equal(t, uint32(900), binary.LittleEndian.Uint32(raw[45:49]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(raw[49:53]))
}

func TestDecodeRejectsOutOfDomainDetection(t *testing.T) {
	s, channels := sample()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, channels))
	raw := buf.Bytes()
	binary.LittleEndian.PutUint32(raw[5:9], 7)

	_, _, err := Decode(bytes.NewReader(raw), Settings{}, 2)
	assert.ErrorIs(t, err, ErrInvalidPersistedSettings)
}

func TestDecodeRejectsOutOfDomainDatumType(t *testing.T) {
	s, _ := sample()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, nil))
	raw := buf.Bytes()
	binary.LittleEndian.PutUint32(raw[29:33], 2)

	_, _, err := Decode(bytes.NewReader(raw), Settings{}, 0)
	assert.ErrorIs(t, err, ErrInvalidPersistedSettings)
}

func TestDecodeRejectsBadLevelMarkerAndTruncation(t *testing.T) {
	s, channels := sample()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, channels))
	raw := buf.Bytes()

	bad := bytes.Clone(raw)
	binary.LittleEndian.PutUint32(bad[49:53], 3)
	_, _, err := Decode(bytes.NewReader(bad), Settings{}, 2)
	assert.ErrorIs(t, err, ErrInvalidPersistedSettings)

	_, _, err = Decode(bytes.NewReader(raw[:len(raw)-5]), Settings{}, 2)
	assert.ErrorIs(t, err, ErrInvalidPersistedSettings)

	// more devices than records
	_, _, err = Decode(bytes.NewReader(raw), Settings{}, 3)
	assert.ErrorIs(t, err, ErrInvalidPersistedSettings)
}

func TestEncodeValidates(t *testing.T) {
	s, _ := sample()
	s.Detection = detection.Algorithm(9)
	assert.ErrorIs(t, Encode(&bytes.Buffer{}, s, nil), ErrInvalidPersistedSettings)
}

func TestDefaults(t *testing.T) {
	b := rig.NewFloatBuffer(4, 1000, 500)
	b.Start, b.End = 10, 990

	s := Defaults(b)
	assert.Equal(t, 333, s.Datum)
	assert.Equal(t, rig.SearchWindow{Start: 10, End: 990}, s.Window())
	assert.Equal(t, detection.Interval, s.Detection)
	assert.Equal(t, datum.Automatic, s.DatumType)
	assert.Equal(t, 90, s.ThresholdPercent)
	assert.Equal(t, 100, s.MinimumSeparation)
	assert.NoError(t, s.Validate())
}
