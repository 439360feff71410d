package settings

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/RyanBlaney/sonido-mapping/algorithms/datum"
	"github.com/RyanBlaney/sonido-mapping/algorithms/detection"
	"github.com/RyanBlaney/sonido-mapping/rig"
)

// levelFormat marks the Level extension that follows the fixed fields
const levelFormat = 1

// header is the fixed part of the block in field order
type header struct {
	Datum             int32
	CalculateEvents   uint8
	Detection         int32
	EventNumber       int32
	BeatCount         int32
	PotentialTime     int32
	MinimumSeparation int32
	ThresholdPercent  int32
	DatumType         int32
	EditOrder         int32
	SignalOrder       int32
	SearchStart       int32
	SearchEnd         int32
}

type levelExtension struct {
	FormatMarker int32
	Level        float32
	AverageWidth int32
}

type channelHeader struct {
	Status     int32
	RangeMin   float32
	RangeMax   float32
	EventCount int32
}

type storedEvent struct {
	Time   int32
	Number int32
	Status int32
}

// Encode writes s followed by one record per channel, little-endian.
func Encode(w io.Writer, s Settings, channels []Channel) error {
	if err := s.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	put := func(v any) error { return binary.Write(bw, binary.LittleEndian, v) }

	h := header{
		Datum:             int32(s.Datum),
		Detection:         int32(s.Detection),
		EventNumber:       int32(s.EventNumber),
		BeatCount:         int32(s.BeatCount),
		PotentialTime:     int32(s.PotentialTime),
		MinimumSeparation: int32(s.MinimumSeparation),
		ThresholdPercent:  int32(s.ThresholdPercent),
		DatumType:         int32(s.DatumType),
		EditOrder:         int32(s.EditOrder),
		SignalOrder:       int32(s.SignalOrder),
		SearchStart:       int32(s.SearchStart),
		SearchEnd:         int32(s.SearchEnd),
	}
	if s.CalculateEvents {
		h.CalculateEvents = 1
	}
	if err := put(&h); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if s.Detection == detection.Level {
		ext := levelExtension{FormatMarker: levelFormat, Level: float32(s.Level), AverageWidth: int32(s.AverageWidth)}
		if err := put(&ext); err != nil {
			return fmt.Errorf("write level settings: %w", err)
		}
	}

	for i, c := range channels {
		ch := channelHeader{
			Status:     int32(c.Status),
			RangeMin:   float32(c.RangeMin),
			RangeMax:   float32(c.RangeMax),
			EventCount: int32(len(c.Events)),
		}
		if err := put(&ch); err != nil {
			return fmt.Errorf("write channel %d: %w", i, err)
		}
		for _, e := range c.Events {
			ev := storedEvent{Time: int32(e.Time), Number: int32(e.Number), Status: int32(e.Status)}
			if err := put(&ev); err != nil {
				return fmt.Errorf("write channel %d events: %w", i, err)
			}
		}
	}
	return bw.Flush()
}

// Decode reads a block holding deviceCount channel records. Fields the block
// does not carry keep their value from base: Divisions always, Level and
// AverageWidth unless the Level extension is present. Any value outside its
// domain rejects the block with ErrInvalidPersistedSettings.
func Decode(r io.Reader, base Settings, deviceCount int) (Settings, []Channel, error) {
	get := func(v any) error { return binary.Read(r, binary.LittleEndian, v) }

	var h header
	if err := get(&h); err != nil {
		return Settings{}, nil, truncated("settings", err)
	}
	s := Settings{
		Divisions:         slices.Clone(base.Divisions),
		Level:             base.Level,
		AverageWidth:      base.AverageWidth,
		Datum:             int(h.Datum),
		CalculateEvents:   h.CalculateEvents != 0,
		Detection:         detection.Algorithm(h.Detection),
		EventNumber:       int(h.EventNumber),
		BeatCount:         int(h.BeatCount),
		PotentialTime:     int(h.PotentialTime),
		MinimumSeparation: int(h.MinimumSeparation),
		ThresholdPercent:  int(h.ThresholdPercent),
		DatumType:         datum.Mode(h.DatumType),
		EditOrder:         EditOrder(h.EditOrder),
		SignalOrder:       SignalOrder(h.SignalOrder),
		SearchStart:       int(h.SearchStart),
		SearchEnd:         int(h.SearchEnd),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, nil, err
	}

	if s.Detection == detection.Level {
		var ext levelExtension
		if err := get(&ext); err != nil {
			return Settings{}, nil, truncated("level settings", err)
		}
		if ext.FormatMarker != levelFormat {
			return Settings{}, nil, fmt.Errorf("%w: level format %d", ErrInvalidPersistedSettings, ext.FormatMarker)
		}
		if math.IsNaN(float64(ext.Level)) {
			return Settings{}, nil, fmt.Errorf("%w: level is NaN", ErrInvalidPersistedSettings)
		}
		s.Level = float64(ext.Level)
		s.AverageWidth = int(ext.AverageWidth)
	}

	channels := make([]Channel, deviceCount)
	for i := range channels {
		var ch channelHeader
		if err := get(&ch); err != nil {
			return Settings{}, nil, truncated(fmt.Sprintf("channel %d", i), err)
		}
		status := rig.EventStatus(ch.Status)
		if !status.Valid() || ch.EventCount < 0 {
			return Settings{}, nil, fmt.Errorf("%w: channel %d status %d with %d events",
				ErrInvalidPersistedSettings, i, ch.Status, ch.EventCount)
		}
		c := Channel{Status: status, RangeMin: float64(ch.RangeMin), RangeMax: float64(ch.RangeMax)}
		for j := range int(ch.EventCount) {
			var ev storedEvent
			if err := get(&ev); err != nil {
				return Settings{}, nil, truncated(fmt.Sprintf("channel %d event %d", i, j), err)
			}
			es := rig.EventStatus(ev.Status)
			if !es.Valid() {
				return Settings{}, nil, fmt.Errorf("%w: channel %d event %d status %d",
					ErrInvalidPersistedSettings, i, j, ev.Status)
			}
			c.Events = append(c.Events, rig.Event{Time: int(ev.Time), Number: int(ev.Number), Status: es})
		}
		channels[i] = c
	}
	return s, channels, nil
}

func truncated(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s truncated", ErrInvalidPersistedSettings, what)
	}
	return fmt.Errorf("read %s: %w", what, err)
}
