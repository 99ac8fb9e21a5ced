package protocol

import "encoding/binary"

// StartSpeedForDegrees encodes a rotate-by-angle command. The degree count is
// written as a little-endian 32-bit value into the four reserved bytes at
// offset 4, and the trailing mode selector marks the motion as terminated by
// angle rather than time.
func StartSpeedForDegrees(port byte, degrees int32, speed int, brake BrakingStyle) []byte {
	frame := []byte{
		PortOutputCommand, port, StartupAndComplete, SubStartSpeedForDegrees,
		0x00, 0x00, 0x00, 0x00, byte(MapSpeed(speed)), ProfileByte, byte(brake), ModeSelectorRotate,
	}
	binary.LittleEndian.PutUint32(frame[4:], uint32(degrees))
	return frame
}

// StartSpeedForDegreesPair is the rotate-by-angle command for a virtual port.
func StartSpeedForDegreesPair(port byte, degrees int32, speedA, speedB int, brake BrakingStyle) []byte {
	frame := []byte{
		PortOutputCommand, port, StartupAndComplete, SubStartSpeedForDegreesPair,
		0x00, 0x00, 0x00, 0x00, byte(MapSpeed(speedA)), byte(MapSpeed(speedB)), ProfileByte, byte(brake), ModeSelectorRotate,
	}
	binary.LittleEndian.PutUint32(frame[4:], uint32(degrees))
	return frame
}
