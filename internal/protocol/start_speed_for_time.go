package protocol

import "encoding/binary"

// StartSpeedForTime encodes a timed single-speed command. The run time in
// milliseconds is written little-endian into the two reserved bytes at
// offset 4.
func StartSpeedForTime(port byte, ms uint16, speed int, brake BrakingStyle) []byte {
	frame := []byte{
		PortOutputCommand, port, StartupAndComplete, SubStartSpeedForTime,
		0x00, 0x00, byte(MapSpeed(speed)), ProfileByte, byte(brake), ModeSelectorSpeed,
	}
	binary.LittleEndian.PutUint16(frame[4:], ms)
	return frame
}

// StartSpeedForTimePair is the timed command for a virtual port, with the
// same time placement as StartSpeedForTime.
func StartSpeedForTimePair(port byte, ms uint16, speedA, speedB int, brake BrakingStyle) []byte {
	frame := []byte{
		PortOutputCommand, port, StartupAndComplete, SubStartSpeedForTimePair,
		0x00, 0x00, byte(MapSpeed(speedA)), byte(MapSpeed(speedB)), ProfileByte, byte(brake), ModeSelectorSpeed,
	}
	binary.LittleEndian.PutUint16(frame[4:], ms)
	return frame
}
