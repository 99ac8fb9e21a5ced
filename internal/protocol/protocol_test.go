package protocol

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestMapSpeedSaturates(t *testing.T) {
	if MapSpeed(150) != 100 {
		t.Fatalf("expected saturation at 100, got %d", MapSpeed(150))
	}
	if MapSpeed(-150) != -100 {
		t.Fatalf("expected saturation at -100, got %d", MapSpeed(-150))
	}
	if MapSpeed(0) != 0 {
		t.Fatalf("MapSpeed(0) must encode stop, got %d", MapSpeed(0))
	}
}

func TestMapSpeedMonotonic(t *testing.T) {
	prev := MapSpeed(-100)
	for s := -99; s <= 100; s++ {
		cur := MapSpeed(s)
		if cur < prev {
			t.Fatalf("MapSpeed not monotonic at %d: %d < %d", s, cur, prev)
		}
		prev = cur
	}
}

func TestEncodeLayouts(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		want  []byte
	}{
		{
			name:  "StartSpeed",
			frame: StartSpeed(0x01, 50, Brake),
			want:  []byte{0x81, 0x01, 0x11, 0x07, 50, 0x64, 0x03, 0x64, 0x7f, 0x00},
		},
		{
			name:  "StartSpeedPair",
			frame: StartSpeedPair(0x10, 40, -40, Hold),
			want:  []byte{0x81, 0x10, 0x11, 0x08, 40, 0xd8, 0x64, 0x7e, 0x00},
		},
		{
			name:  "StartSpeedForTime",
			frame: StartSpeedForTime(0x00, 2000, 50, Brake),
			want:  []byte{0x81, 0x00, 0x11, 0x09, 0xd0, 0x07, 50, 0x64, 0x7f, 0x00},
		},
		{
			name:  "StartSpeedForTimePair",
			frame: StartSpeedForTimePair(0x10, 500, 30, 60, Coast),
			want:  []byte{0x81, 0x10, 0x11, 0x0a, 0xf4, 0x01, 30, 60, 0x64, 0x00, 0x00},
		},
		{
			name:  "StartSpeedForDegrees",
			frame: StartSpeedForDegrees(0x02, 90, 25, Brake),
			want:  []byte{0x81, 0x02, 0x11, 0x0b, 0x5a, 0x00, 0x00, 0x00, 25, 0x64, 0x7f, 0x03},
		},
		{
			name:  "StartSpeedForDegreesPair",
			frame: StartSpeedForDegreesPair(0x10, 360, 50, -50, Brake),
			want:  []byte{0x81, 0x10, 0x11, 0x0c, 0x68, 0x01, 0x00, 0x00, 50, 0xce, 0x64, 0x7f, 0x03},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !bytes.Equal(tt.frame, tt.want) {
				t.Fatalf("frame mismatch:\ngot:  % x\nwant: % x", tt.frame, tt.want)
			}
		})
	}
}

func TestRotateDegreesRoundTrip(t *testing.T) {
	frame := StartSpeedForDegrees(0x00, 720, 100, Brake)
	got := binary.LittleEndian.Uint32(frame[4:8])
	if got != 720 {
		t.Fatalf("degrees at offset 4: got %d, want 720", got)
	}
}
