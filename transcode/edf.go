// Package transcode moves rigs in and out of EDF recordings.
package transcode

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/OpenPSG/edf"
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-mapping/logging"
	"github.com/RyanBlaney/sonido-mapping/rig"
)

// maxRecordBytes is the largest data record EDF recommends
const maxRecordBytes = 61440

// EDFConfig holds what an EDF reader cannot recover from the file itself.
type EDFConfig struct {
	// Frequency is the sampling rate in Hz of every signal
	Frequency float64 `json:"frequency"`
	// Labels name the devices in signal order. Missing labels become S1, S2...
	Labels []string `json:"labels"`
	// MaxSignals bounds how many signals are probed
	MaxSignals int `json:"max_signals"`

	PatientID         string    `json:"patient_id"`
	RecordingID       string    `json:"recording_id"`
	StartTime         time.Time `json:"start_time"`
	PhysicalDimension string    `json:"physical_dimension"`
}

// DefaultEDFConfig returns the default configuration
func DefaultEDFConfig() *EDFConfig {
	return &EDFConfig{
		Frequency:         1000,
		MaxSignals:        9999,
		PhysicalDimension: "mV",
	}
}

// EDF reads and writes rigs as EDF files: one signal per device, physical
// values, one second per data record.
type EDF struct {
	config *EDFConfig
}

// NewEDF creates an EDF transcoder
func NewEDF(config *EDFConfig) *EDF {
	if config == nil {
		config = DefaultEDFConfig()
	}
	return &EDF{config: config}
}

func (e *EDF) label(i int) string {
	if i < len(e.config.Labels) && e.config.Labels[i] != "" {
		return e.config.Labels[i]
	}
	return fmt.Sprintf("S%d", i+1)
}

// DecodeFile reads the EDF file at filename into a rig named after it.
func (e *EDF) DecodeFile(filename string) (*rig.Rig, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return e.Decode(f, filename)
}

// Decode reads every signal of an EDF stream into one float buffer. Each
// signal becomes an electrode device with identity calibration; values are
// physical. All signals must hold the same number of samples.
func (e *EDF) Decode(r io.ReadSeeker, name string) (*rig.Rig, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "edf_transcoder",
		"function":  "Decode",
		"rig":       name,
	})
	logger.Debug("Starting EDF decode")

	er, err := edf.Open(r)
	if err != nil {
		logger.Error(err, "Failed to open EDF stream")
		return nil, fmt.Errorf("open edf: %w", err)
	}

	var signals [][]float64
	for i := 0; i < e.config.MaxSignals; i++ {
		sr, err := er.Signal(i)
		if err != nil {
			break
		}
		samples, err := readSignal(sr)
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", i, err)
		}
		if len(signals) > 0 && len(samples) != len(signals[0]) {
			return nil, fmt.Errorf("%w: signal %d holds %d samples, signal 1 holds %d",
				rig.ErrShapeMismatch, i+1, len(samples), len(signals[0]))
		}
		signals = append(signals, samples)
	}
	if len(signals) == e.config.MaxSignals {
		logger.Warn("signal limit reached, later signals ignored", logging.Fields{"max_signals": e.config.MaxSignals})
	}
	if len(signals) == 0 || len(signals[0]) == 0 {
		return nil, fmt.Errorf("edf stream holds no samples")
	}

	out := rig.NewRig(name)
	b := rig.NewFloatBuffer(len(signals), len(signals[0]), e.config.Frequency)
	for ch, samples := range signals {
		b.SetChannel(ch, 0, samples)
	}
	id := out.Store.Add(b)
	for ch := range signals {
		out.AddDevice(e.label(ch), rig.Electrode, id, ch)
	}
	if err := out.UpdateSignalRange(); err != nil {
		return nil, err
	}

	logger.Debug("EDF decode completed", logging.Fields{
		"signals": len(signals),
		"samples": len(signals[0]),
	})
	return out, nil
}

func readSignal(sr *edf.SignalReader) ([]float64, error) {
	var out []float64
	chunk := make([]float64, 4096)
	for {
		n, err := sr.Read(chunk)
		out = append(out, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// EncodeFile writes r to a new EDF file at filename.
func (e *EDF) EncodeFile(filename string, r *rig.Rig) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := e.Encode(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes the calibrated samples of every device of r. Each data record
// holds one second; a final partial second is padded with the last sample of
// each signal. Signals are digitised over their own range.
func (e *EDF) Encode(w io.WriteSeeker, r *rig.Rig) error {
	logger := logging.WithFields(logging.Fields{
		"component": "edf_transcoder",
		"function":  "Encode",
		"rig":       r.Name,
	})
	if len(r.Devices) == 0 {
		return fmt.Errorf("rig %q has no devices", r.Name)
	}

	signals := make([][]float64, len(r.Devices))
	frequency := 0.0
	for i, d := range r.Devices {
		samples, err := r.Samples(d)
		if err != nil {
			return fmt.Errorf("device %q: %w", d.Name, err)
		}
		if i > 0 && len(samples) != len(signals[0]) {
			return fmt.Errorf("%w: device %q holds %d samples, want %d",
				rig.ErrShapeMismatch, d.Name, len(samples), len(signals[0]))
		}
		rate := r.Buffer(d).Frequency
		if i > 0 && rate != frequency {
			return fmt.Errorf("%w: device %q sampled at %g Hz, want %g Hz",
				rig.ErrShapeMismatch, d.Name, rate, frequency)
		}
		signals[i] = samples
		frequency = rate
	}

	perRecord := int(math.Round(frequency))
	if perRecord < 1 || float64(perRecord) != frequency {
		return fmt.Errorf("sampling rate %g Hz is not a whole number of samples per second", frequency)
	}
	if perRecord*len(signals)*2 > maxRecordBytes {
		return fmt.Errorf("%d signals at %d Hz exceed the %d byte data record", len(signals), perRecord, maxRecordBytes)
	}

	hdr := edf.Header{
		Version:            edf.Version0,
		PatientID:          e.config.PatientID,
		RecordingID:        e.config.RecordingID,
		StartTime:          e.config.StartTime,
		DataRecordDuration: time.Second,
		SignalCount:        len(signals),
		Signals:            make([]edf.Signal, len(signals)),
	}
	for i, samples := range signals {
		lo, hi := physicalRange(samples)
		hdr.Signals[i] = edf.Signal{
			Label:             r.Devices[i].Name,
			TransducerType:    r.Devices[i].Kind.String(),
			PhysicalDimension: e.config.PhysicalDimension,
			PhysicalMin:       lo,
			PhysicalMax:       hi,
			DigitalMin:        math.MinInt16,
			DigitalMax:        math.MaxInt16,
			SamplesPerRecord:  perRecord,
		}
	}

	ew, err := edf.Create(w, hdr)
	if err != nil {
		return fmt.Errorf("create edf: %w", err)
	}
	total := len(signals[0])
	records := 0
	record := make([][]float64, len(signals))
	for start := 0; start < total; start += perRecord {
		for i, samples := range signals {
			chunk := make([]float64, perRecord)
			n := copy(chunk, samples[start:min(start+perRecord, total)])
			for k := n; k < perRecord; k++ {
				chunk[k] = samples[total-1]
			}
			record[i] = chunk
		}
		if err := ew.WriteRecord(record); err != nil {
			return fmt.Errorf("record %d: %w", records, err)
		}
		records++
	}
	if err := ew.Close(); err != nil {
		return err
	}

	logger.Debug("EDF encode completed", logging.Fields{
		"signals": len(signals),
		"records": records,
	})
	return nil
}

// physicalRange widens the sample range to whole units, which is all the
// header's eight-character fields can hold for large values.
func physicalRange(samples []float64) (float64, float64) {
	return math.Floor(floats.Min(samples)) - 1, math.Ceil(floats.Max(samples)) + 1
}
