// Package protocol implements the wire frames this library exchanges with a
// Powered Up hub: port output commands driving tacho motors, and the rotation
// telemetry those motors report back.
package protocol

// Common header of every port output command.
const (
	PortOutputCommand  = 0x81
	StartupAndComplete = 0x11
)

// Sub-commands selecting the output command layout. Paired variants drive the
// two halves of a virtual port with independent speeds. There is no timed
// rotate layout in the protocol.
const (
	SubStartSpeed               = 0x07
	SubStartSpeedPair           = 0x08
	SubStartSpeedForTime        = 0x09
	SubStartSpeedForTimePair    = 0x0a
	SubStartSpeedForDegrees     = 0x0b
	SubStartSpeedForDegreesPair = 0x0c
)

// Acceleration/deceleration profile byte carried by every motor command.
const ProfileByte = 0x64

// Trailing mode-selector byte: speed commands run until told otherwise,
// rotation commands terminate at the requested angle.
const (
	ModeSelectorSpeed  = 0x00
	ModeSelectorRotate = 0x03
)

// ModeRotation is the telemetry mode id for accumulated rotation readings.
const ModeRotation byte = 0x02

// BrakingStyle selects what the motor does when a motion command ends.
type BrakingStyle byte

const (
	Coast BrakingStyle = 0x00
	Hold  BrakingStyle = 0x7e
	Brake BrakingStyle = 0x7f
)

func (b BrakingStyle) String() string {
	switch b {
	case Coast:
		return "coast"
	case Hold:
		return "hold"
	case Brake:
		return "brake"
	}
	return "unknown"
}

// HubVariant identifies the hardware generation of the hub a port belongs to.
// It is fixed when a device is bound to a port.
type HubVariant int

const (
	WeDo2SmartHub HubVariant = iota
	BoostMoveHub
	PoweredUpHub
	TechnicMediumHub
)

func (v HubVariant) String() string {
	switch v {
	case WeDo2SmartHub:
		return "WeDo 2.0 Smart Hub"
	case BoostMoveHub:
		return "Boost Move Hub"
	case PoweredUpHub:
		return "Powered Up Hub"
	case TechnicMediumHub:
		return "Technic Medium Hub"
	}
	return "unknown hub"
}

// SupportsMotorCommands reports whether the variant accepts port output motor
// commands. The WeDo 2.0 generation predates this command set.
func (v HubVariant) SupportsMotorCommands() bool {
	return v != WeDo2SmartHub
}

// rotationOffsets maps hub variants to the byte offset of the degree field in
// a rotation telemetry frame. Variants absent from the table use
// defaultRotationOffset.
var rotationOffsets = map[HubVariant]int{
	WeDo2SmartHub: 2,
}

const defaultRotationOffset = 4

// RotationOffset returns the byte offset of the rotation value in telemetry
// frames delivered by this hub generation.
func (v HubVariant) RotationOffset() int {
	if off, ok := rotationOffsets[v]; ok {
		return off
	}
	return defaultRotationOffset
}

// MapSpeed converts a logical speed in [-100, 100] to its signed 8-bit wire
// value. Values outside the range saturate; 0 commands a stop. Every encoder
// in this package maps speeds through this one function.
func MapSpeed(speed int) int8 {
	switch {
	case speed > 100:
		return 100
	case speed < -100:
		return -100
	}
	return int8(speed)
}
