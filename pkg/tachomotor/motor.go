// Package tachomotor drives rotational motors with positional feedback
// attached to a Powered Up hub port.
//
// Commands are fire-and-forget at the transport level: each motion operation
// returns a channel that is closed when the hub later delivers its "command
// finished" feedback (routed here through ResolveCompletion). Rotation
// telemetry arrives independently of commands and is published as "rotate"
// notifications through the port.
package tachomotor

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sciguy16/node-poweredup/internal/protocol"
)

// EventRotate is the notification name rotation readings are published under.
const EventRotate = "rotate"

// SupportsCombinedMode is true for this motor class: rotation telemetry can
// be combined with other sensor modes on the same port.
const SupportsCombinedMode = true

// Port is the hub-side binding a motor drives through. The hub package
// provides implementations for physical and virtual ports.
type Port interface {
	ID() byte
	// Virtual reports whether this port aggregates two physical ports.
	Virtual() bool
	Variant() protocol.HubVariant

	// Send transmits one command frame. Transmission is fire-and-forget;
	// transport failures are the hub's concern, not the motor's.
	Send(frame []byte)
	// Notify publishes a named event to the hub's observers.
	Notify(event string, payload any)
	// CancelEventTimer stops any hub-managed notification timer so a stale
	// timer-driven event cannot be attributed to a new command. Idempotent.
	CancelEventTimer()
}

// Config carries construction-time options for a motor.
type Config struct {
	// Modes overrides entries of the default event-name to mode-id map.
	Modes map[string]byte
}

var defaultModes = map[string]byte{
	EventRotate: protocol.ModeRotation,
}

// Motor is one rotational actuator bound to a port. Port topology and hub
// variant are read once at construction and fixed for the motor's lifetime.
type Motor struct {
	port    Port
	id      byte
	virtual bool
	variant protocol.HubVariant
	modes   map[string]byte

	mu      sync.Mutex
	braking protocol.BrakingStyle
	done    chan struct{} // non-nil while a command is outstanding
}

// New binds a motor to a port. Mode overrides in cfg take precedence over the
// class defaults; the merged map is resolved once and never mutated.
func New(port Port, cfg Config) *Motor {
	modes := make(map[string]byte, len(defaultModes)+len(cfg.Modes))
	for name, mode := range defaultModes {
		modes[name] = mode
	}
	for name, mode := range cfg.Modes {
		modes[name] = mode
	}

	return &Motor{
		port:    port,
		id:      port.ID(),
		virtual: port.Virtual(),
		variant: port.Variant(),
		modes:   modes,
		braking: protocol.Brake,
	}
}

// SetBrakingStyle selects the post-motion behavior applied when a motion
// command ends. It takes effect from the next command.
func (m *Motor) SetBrakingStyle(style protocol.BrakingStyle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.braking = style
}

// BrakingStyle returns the currently configured post-motion behavior.
func (m *Motor) BrakingStyle() protocol.BrakingStyle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.braking
}

// Busy reports whether a command is outstanding.
func (m *Motor) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done != nil
}

// SetSpeed starts the motor and keeps it running. With no arguments the motor
// runs at full speed (100); one value drives the whole port; two values drive
// the halves of a virtual port independently. The returned channel is closed
// when the hub reports the command finished.
func (m *Motor) SetSpeed(speeds ...int) (<-chan struct{}, error) {
	if err := m.validate("speed control", speeds); err != nil {
		return nil, err
	}
	speeds = withDefaultSpeed(speeds)

	m.mu.Lock()
	defer m.mu.Unlock()

	var frame []byte
	if len(speeds) == 1 {
		frame = protocol.StartSpeed(m.id, speeds[0], m.braking)
	} else {
		frame = protocol.StartSpeedPair(m.id, speeds[0], speeds[1], m.braking)
	}

	return m.issue(frame), nil
}

// SetSpeedFor runs the motor at the given speed for a fixed duration, rounded
// down to whole milliseconds.
func (m *Motor) SetSpeedFor(d time.Duration, speeds ...int) (<-chan struct{}, error) {
	if err := m.validate("speed control", speeds); err != nil {
		return nil, err
	}
	speeds = withDefaultSpeed(speeds)

	m.mu.Lock()
	defer m.mu.Unlock()

	ms := uint16(d.Milliseconds())
	var frame []byte
	if len(speeds) == 1 {
		frame = protocol.StartSpeedForTime(m.id, ms, speeds[0], m.braking)
	} else {
		frame = protocol.StartSpeedForTimePair(m.id, ms, speeds[0], speeds[1], m.braking)
	}

	return m.issue(frame), nil
}

// RotateByDegrees turns the motor through the given angle at the given speed
// (default 100). Direction follows the sign of the speed.
func (m *Motor) RotateByDegrees(degrees int, speeds ...int) (<-chan struct{}, error) {
	if err := m.validate("rotation", speeds); err != nil {
		return nil, err
	}
	speeds = withDefaultSpeed(speeds)

	m.mu.Lock()
	defer m.mu.Unlock()

	var frame []byte
	if len(speeds) == 1 {
		frame = protocol.StartSpeedForDegrees(m.id, int32(degrees), speeds[0], m.braking)
	} else {
		frame = protocol.StartSpeedForDegreesPair(m.id, int32(degrees), speeds[0], speeds[1], m.braking)
	}

	return m.issue(frame), nil
}

// issue cancels any hub-side event timer, installs a fresh completion slot
// and sends the frame. Called with m.mu held.
//
// A previously pending channel is dropped without being closed: the newest
// command wins and the abandoned caller's wait never resolves. Callers that
// need back-to-back motions must wait for the previous channel first.
func (m *Motor) issue(frame []byte) <-chan struct{} {
	m.port.CancelEventTimer()

	if m.done != nil {
		slog.Warn("command issued while busy; previous completion abandoned",
			slog.Int("port", int(m.id)))
	}

	done := make(chan struct{})
	m.done = done
	m.port.Send(frame)
	return done
}

// ResolveCompletion marks the outstanding command finished and releases its
// waiter. The hub calls this when the port's command feedback arrives.
// Resolving with nothing outstanding is a no-op.
func (m *Motor) ResolveCompletion() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done == nil {
		return
	}
	close(m.done)
	m.done = nil
}

// Parse interprets one telemetry frame delivered for this motor. Rotation
// frames produce a "rotate" notification and the remainder of the buffer is
// returned for downstream consumers; frames for any other mode pass through
// unchanged. Parse never clears the busy state: completion is driven by the
// separate command feedback path.
func (m *Motor) Parse(mode byte, frame []byte) []byte {
	switch mode {
	case m.modes[EventRotate]:
		reading, rest, err := protocol.DecodeRotation(m.variant, frame)
		if err != nil {
			slog.Warn("undecodable rotation frame",
				slog.Int("port", int(m.id)), slog.Any("error", err))
			return frame
		}
		m.port.Notify(EventRotate, reading)
		return rest

	default:
		return frame
	}
}

// validate rejects commands the port topology or hub variant cannot carry.
// It runs before any frame is built: a failed call has no side effects.
func (m *Motor) validate(action string, speeds []int) error {
	if !m.variant.SupportsMotorCommands() {
		return UnsupportedVariantError{Variant: m.variant, Action: action}
	}
	if len(speeds) > 1 && !m.virtual {
		return UnsupportedTopologyError{Port: m.id, Speeds: len(speeds)}
	}
	if len(speeds) > 2 {
		return UnsupportedTopologyError{Port: m.id, Speeds: len(speeds)}
	}
	return nil
}

func withDefaultSpeed(speeds []int) []int {
	if len(speeds) == 0 {
		return []int{100}
	}
	return speeds
}
