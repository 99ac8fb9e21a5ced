package protocol

import (
	"encoding/binary"
	"fmt"
)

// RotationReading is one decoded rotation telemetry sample: the accumulated
// degree count reported by the motor.
type RotationReading struct {
	Degrees int32
}

// DecodeRotation reads the rotation count out of a telemetry frame. The
// degree field sits at a variant-dependent offset (the WeDo 2.0 generation
// uses a shorter message header). The returned remainder is the frame
// advanced past the first four bytes, for downstream consumers.
func DecodeRotation(variant HubVariant, frame []byte) (RotationReading, []byte, error) {
	off := variant.RotationOffset()
	if len(frame) < off+4 {
		return RotationReading{}, frame, fmt.Errorf("rotation frame too short: %d bytes, need %d", len(frame), off+4)
	}

	degrees := int32(binary.LittleEndian.Uint32(frame[off : off+4]))
	return RotationReading{Degrees: degrees}, frame[4:], nil
}
