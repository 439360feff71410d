// Package analysis runs the event detection and signal processing operations
// against one recording. A Session owns the raw rig, the processed copy that
// destructive operations work on, the current selection and the settings.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/RyanBlaney/sonido-mapping/logging"
	"github.com/RyanBlaney/sonido-mapping/rig"
	"github.com/RyanBlaney/sonido-mapping/settings"
)

// ErrNoSelection is returned by operations on the current device when none is selected
var ErrNoSelection = errors.New("no device selected")

// Result reports the outcome of an operation. Warnings are non-fatal
// conditions; the operation completed for everything they do not name.
type Result struct {
	Warnings []error
	Channels int
	Events   int
}

func (r *Result) warn(err error) {
	r.Warnings = append(r.Warnings, err)
}

// Session is the analysis context for one recording. Its methods are safe
// to call from several goroutines; they run one at a time.
type Session struct {
	mu sync.Mutex

	id        uuid.UUID
	raw       *rig.Rig
	processed *rig.Rig
	selected  string
	settings  settings.Settings
	config    Config
	logger    logging.Logger
	listeners []Listener
}

// NewSession starts a session on raw. Settings start from the defaults of the
// first device's buffer. Fields stored in ctx with logging.ContextWithFields
// are added to every log line. A nil logger means the global logger.
func NewSession(ctx context.Context, raw *rig.Rig, config Config, logger logging.Logger) (*Session, error) {
	if raw == nil || len(raw.Devices) == 0 {
		return nil, fmt.Errorf("session needs a rig with devices")
	}
	first := raw.Buffer(raw.Devices[0])
	if first == nil {
		return nil, fmt.Errorf("device %q: %w", raw.Devices[0].Name, rig.ErrUnknownBuffer)
	}
	for _, id := range raw.Store.IDs() {
		if err := raw.Store.Get(id).Validate(); err != nil {
			return nil, fmt.Errorf("buffer %d: %w", id, err)
		}
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	raw.Store.MaxSamples = config.MaxBufferSamples
	id := uuid.New()
	s := &Session{
		id:       id,
		raw:      raw,
		selected: raw.Devices[0].Name,
		settings: settings.Defaults(first),
		config:   config,
		logger: logger.WithContext(ctx).WithFields(logging.Fields{
			"component":  "analysis_session",
			"session_id": id.String(),
			"rig":        raw.Name,
		}),
	}
	s.logger.Debug("session started", logging.Fields{
		"devices": len(raw.Devices),
		"samples": first.NumberOfSamples(),
	})
	return s, nil
}

// ID identifies the session in logs and change notifications
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Rig returns the rig operations currently act on: the processed rig once it
// exists, the raw rig before.
func (s *Session) Rig() *rig.Rig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active()
}

// Raw returns the raw rig
func (s *Session) Raw() *rig.Rig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw
}

// Processed returns the processed rig, or nil
func (s *Session) Processed() *rig.Rig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processed
}

func (s *Session) active() *rig.Rig {
	if s.processed != nil {
		return s.processed
	}
	return s.raw
}

// Settings returns a copy of the current settings
func (s *Session) Settings() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetSettings replaces the settings after validating them.
func (s *Session) SetSettings(next settings.Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = next
	s.mu.Unlock()
	s.notify([]ChangeKind{ChangeSettings})
	return nil
}

// Selected returns the selected device of the active rig.
func (s *Session) Selected() (*rig.Device, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedDevice()
}

func (s *Session) selectedDevice() (*rig.Device, bool) {
	if s.selected == "" {
		return nil, false
	}
	return s.active().DeviceByName(s.selected)
}

// Select makes the device called name current. An unknown name clears the
// selection.
func (s *Session) Select(name string) Result {
	res, _ := s.run("select", func(res *Result) ([]ChangeKind, error) {
		if _, ok := s.active().DeviceByName(name); ok {
			s.selected = name
		} else {
			s.selected = ""
		}
		return []ChangeKind{ChangeSelection}, nil
	})
	return res
}

// run executes op under the session lock, logs its outcome and notifies
// listeners once the lock is released.
func (s *Session) run(name string, op func(res *Result) ([]ChangeKind, error)) (Result, error) {
	var res Result
	s.mu.Lock()
	changes, err := op(&res)
	s.mu.Unlock()

	fields := logging.Fields{"operation": name}
	if err != nil {
		s.logger.Error(err, "operation failed", fields)
		return Result{}, err
	}
	for _, w := range res.Warnings {
		s.logger.Warn(w.Error(), fields)
	}
	s.logger.Debug("operation complete", fields, logging.Fields{
		"channels": res.Channels,
		"events":   res.Events,
	})
	s.notify(changes)
	return res, nil
}
