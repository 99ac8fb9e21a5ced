package hub

import (
	"encoding/binary"

	"github.com/sciguy16/node-poweredup/internal/protocol"
)

// Port is one attachment point on the hub. It implements tachomotor.Port.
type Port struct {
	hub     *Hub
	id      byte
	virtual bool

	device Device
}

func (p *Port) ID() byte                     { return p.id }
func (p *Port) Virtual() bool                { return p.virtual }
func (p *Port) Variant() protocol.HubVariant { return p.hub.variant }

// Bind routes the port's telemetry and command feedback to d.
func (p *Port) Bind(d Device) {
	p.hub.mu.Lock()
	defer p.hub.mu.Unlock()
	p.device = d
}

// Send transmits one command frame through the hub, fire-and-forget.
func (p *Port) Send(frame []byte) {
	p.hub.send(frame)
}

// Notify publishes a named event to the hub's observers.
func (p *Port) Notify(event string, payload any) {
	p.hub.dispatch(event, payload)
}

// CancelEventTimer stops the hub-managed notification timer.
func (p *Port) CancelEventTimer() {
	p.hub.CancelEventTimer()
}

// Activate asks the hub to stream telemetry for the given mode with a value
// delta of 1, and records the mode so inbound port values are decoded with
// it.
func (p *Port) Activate(mode byte) {
	frame := []byte{msgPortInputFormatSetup, p.id, mode, 0x00, 0x00, 0x00, 0x00, 0x01}
	binary.LittleEndian.PutUint32(frame[3:], 1)

	p.hub.mu.Lock()
	p.hub.activeModes[p.id] = mode
	p.hub.mu.Unlock()

	p.hub.send(frame)
}
