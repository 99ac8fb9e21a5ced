package protocol

// StartSpeed encodes an untimed single-speed command. The motor runs at the
// given speed until a later command stops it.
func StartSpeed(port byte, speed int, brake BrakingStyle) []byte {
	return []byte{
		PortOutputCommand, port, StartupAndComplete, SubStartSpeed,
		byte(MapSpeed(speed)), ProfileByte, 0x03, ProfileByte, byte(brake), ModeSelectorSpeed,
	}
}

// StartSpeedPair encodes an untimed command carrying independent speeds for
// the two halves of a virtual port.
func StartSpeedPair(port byte, speedA, speedB int, brake BrakingStyle) []byte {
	return []byte{
		PortOutputCommand, port, StartupAndComplete, SubStartSpeedPair,
		byte(MapSpeed(speedA)), byte(MapSpeed(speedB)), ProfileByte, byte(brake), ModeSelectorSpeed,
	}
}
