package tachomotor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sciguy16/node-poweredup/internal/protocol"
)

// fakePort records everything the motor asks of its hub binding.
type fakePort struct {
	id      byte
	virtual bool
	variant protocol.HubVariant

	sent          [][]byte
	notifications []notification
	cancels       int
}

type notification struct {
	event   string
	payload any
}

func (p *fakePort) ID() byte                     { return p.id }
func (p *fakePort) Virtual() bool                { return p.virtual }
func (p *fakePort) Variant() protocol.HubVariant { return p.variant }
func (p *fakePort) Send(frame []byte)            { p.sent = append(p.sent, frame) }
func (p *fakePort) CancelEventTimer()            { p.cancels++ }

func (p *fakePort) Notify(event string, payload any) {
	p.notifications = append(p.notifications, notification{event, payload})
}

func newTestMotor(t *testing.T) (*Motor, *fakePort) {
	t.Helper()
	port := &fakePort{id: 0x01, variant: protocol.PoweredUpHub}
	return New(port, Config{}), port
}

func TestSetSpeedTimedFrame(t *testing.T) {
	m, port := newTestMotor(t)

	_, err := m.SetSpeedFor(2*time.Second, 50)
	require.NoError(t, err)

	require.Len(t, port.sent, 1)
	require.Equal(t,
		[]byte{0x81, 0x01, 0x11, 0x09, 0xd0, 0x07, 50, 0x64, byte(protocol.Brake), 0x00},
		port.sent[0])
	require.Equal(t, 1, port.cancels)
}

func TestSetSpeedDefaultsToFullSpeed(t *testing.T) {
	m, port := newTestMotor(t)

	_, err := m.SetSpeed()
	require.NoError(t, err)

	require.Len(t, port.sent, 1)
	require.Equal(t, byte(100), port.sent[0][4])
}

func TestBrakingStyleAppliedToFrames(t *testing.T) {
	m, port := newTestMotor(t)
	require.Equal(t, protocol.Brake, m.BrakingStyle())

	m.SetBrakingStyle(protocol.Hold)
	_, err := m.SetSpeed(30)
	require.NoError(t, err)

	frame := port.sent[0]
	require.Equal(t, byte(protocol.Hold), frame[len(frame)-2])
}

func TestPairedSpeedRequiresVirtualPort(t *testing.T) {
	m, port := newTestMotor(t)

	_, err := m.SetSpeed(50, -50)
	var topo UnsupportedTopologyError
	require.ErrorAs(t, err, &topo)
	require.Equal(t, byte(0x01), topo.Port)

	require.Empty(t, port.sent, "failed validation must not touch transport")
	require.Zero(t, port.cancels)
	require.False(t, m.Busy())
}

func TestPairedSpeedOnVirtualPort(t *testing.T) {
	port := &fakePort{id: 0x10, virtual: true, variant: protocol.TechnicMediumHub}
	m := New(port, Config{})

	_, err := m.SetSpeed(50, -50)
	require.NoError(t, err)

	require.Equal(t,
		[]byte{0x81, 0x10, 0x11, 0x08, 50, 0xce, 0x64, byte(protocol.Brake), 0x00},
		port.sent[0])
}

func TestWeDo2RejectsMotorCommands(t *testing.T) {
	port := &fakePort{id: 0x00, variant: protocol.WeDo2SmartHub}
	m := New(port, Config{})

	_, err := m.SetSpeed(50)
	var variant UnsupportedVariantError
	require.ErrorAs(t, err, &variant)

	_, err = m.RotateByDegrees(90, 50)
	require.ErrorAs(t, err, &variant)

	require.Empty(t, port.sent)
}

func TestRotateByDegreesLifecycle(t *testing.T) {
	m, port := newTestMotor(t)

	done, err := m.RotateByDegrees(720, 50)
	require.NoError(t, err)
	require.True(t, m.Busy())
	require.Len(t, port.sent, 1)

	select {
	case <-done:
		t.Fatal("completion fired before feedback")
	default:
	}

	m.ResolveCompletion()
	require.False(t, m.Busy())

	select {
	case <-done:
	default:
		t.Fatal("completion not delivered")
	}

	// Resolving again with nothing outstanding is a no-op.
	m.ResolveCompletion()
}

// A second command issued while the first is outstanding silently replaces
// the pending completion: the first waiter is never released. This documents
// current behavior, it is not a guarantee worth relying on.
func TestReentrantCommandAbandonsFirstWaiter(t *testing.T) {
	m, _ := newTestMotor(t)

	first, err := m.SetSpeed(50)
	require.NoError(t, err)

	second, err := m.SetSpeed(75)
	require.NoError(t, err)

	m.ResolveCompletion()

	select {
	case <-second:
	default:
		t.Fatal("second completion not delivered")
	}

	select {
	case <-first:
		t.Fatal("first waiter must remain unresolved")
	default:
	}
}

func TestParseRotationEmitsReading(t *testing.T) {
	m, port := newTestMotor(t)

	frame := []byte{0x08, 0x00, 0x45, 0x01, 0xe8, 0x03, 0x00, 0x00}
	rest := m.Parse(protocol.ModeRotation, frame)

	require.Len(t, port.notifications, 1)
	require.Equal(t, EventRotate, port.notifications[0].event)
	require.Equal(t, protocol.RotationReading{Degrees: 1000}, port.notifications[0].payload)
	require.Equal(t, frame[4:], rest)
}

func TestParseRotationWeDo2Offset(t *testing.T) {
	port := &fakePort{id: 0x00, variant: protocol.WeDo2SmartHub}
	m := New(port, Config{})

	m.Parse(protocol.ModeRotation, []byte{0x00, 0x00, 0xe8, 0x03, 0x00, 0x00})

	require.Len(t, port.notifications, 1)
	require.Equal(t, protocol.RotationReading{Degrees: 1000}, port.notifications[0].payload)
}

func TestParseUnknownModePassesThrough(t *testing.T) {
	m, port := newTestMotor(t)

	frame := []byte{0x05, 0x00, 0x45, 0x01, 0xff}
	rest := m.Parse(0x47, frame)

	require.Equal(t, frame, rest)
	require.Empty(t, port.notifications)
}

func TestParseDoesNotClearBusy(t *testing.T) {
	m, _ := newTestMotor(t)

	_, err := m.RotateByDegrees(360)
	require.NoError(t, err)

	m.Parse(protocol.ModeRotation, []byte{0x08, 0x00, 0x45, 0x01, 0x2d, 0x00, 0x00, 0x00})
	require.True(t, m.Busy(), "telemetry must not resolve completion")
}

func TestModeOverrideBeatsDefault(t *testing.T) {
	port := &fakePort{id: 0x02, variant: protocol.BoostMoveHub}
	m := New(port, Config{Modes: map[string]byte{EventRotate: 0x05}})

	// The default rotation mode id is no longer recognized.
	frame := []byte{0x08, 0x00, 0x45, 0x02, 0xe8, 0x03, 0x00, 0x00}
	require.Equal(t, frame, m.Parse(protocol.ModeRotation, frame))
	require.Empty(t, port.notifications)

	m.Parse(0x05, frame)
	require.Len(t, port.notifications, 1)
}
