// Package hub speaks to a Powered Up hub over a BLE transport. It owns the
// outer message framing, routes inbound telemetry and command feedback to the
// devices bound to each port, dispatches named events to observers, and
// manages the hub-level event timer.
package hub

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sciguy16/node-poweredup/internal/ble"
	"github.com/sciguy16/node-poweredup/internal/protocol"
)

// Inbound message types routed by this package.
const (
	msgPortInputFormatSetup = 0x41
	msgPortValueSingle      = 0x45
	msgPortOutputFeedback   = 0x82
)

// Feedback bits reported by a port output feedback message. Either bit means
// the outstanding command has finished.
const (
	feedbackCompleted = 0x02
	feedbackIdle      = 0x08
)

// Device is the port-bound peripheral telemetry and command feedback are
// routed to. *tachomotor.Motor implements it.
type Device interface {
	Parse(mode byte, frame []byte) []byte
	ResolveCompletion()
}

// Options carries construction-time facts about the hub.
type Options struct {
	Name    string
	Variant protocol.HubVariant
}

// Hub is one connected hub. Create it over a transport, attach ports, bind
// devices, then Run the notification pump.
type Hub struct {
	transport ble.Transport
	name      string
	variant   protocol.HubVariant

	mu          sync.Mutex
	ports       map[byte]*Port
	activeModes map[byte]byte
	subscribers map[string][]func(payload any)
	eventTimer  *time.Timer
}

func New(t ble.Transport, opts Options) *Hub {
	return &Hub{
		transport:   t,
		name:        opts.Name,
		variant:     opts.Variant,
		ports:       make(map[byte]*Port),
		activeModes: make(map[byte]byte),
		subscribers: make(map[string][]func(payload any)),
	}
}

func (h *Hub) Name() string                 { return h.name }
func (h *Hub) Variant() protocol.HubVariant { return h.variant }

// Attach registers a physical port binding, creating it on first use.
func (h *Hub) Attach(id byte) *Port {
	return h.attach(id, false)
}

// AttachVirtual registers a virtual port binding: a hub-assigned port id that
// aggregates two physical ports driven as a paired unit.
func (h *Hub) AttachVirtual(id byte) *Port {
	return h.attach(id, true)
}

func (h *Hub) attach(id byte, virtual bool) *Port {
	h.mu.Lock()
	defer h.mu.Unlock()

	if p, ok := h.ports[id]; ok {
		return p
	}
	p := &Port{hub: h, id: id, virtual: virtual}
	h.ports[id] = p
	return p
}

// Detach tears down a port binding. Telemetry for the port is dropped from
// then on.
func (h *Hub) Detach(id byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.ports, id)
	delete(h.activeModes, id)
}

// Subscribe registers fn for the named event. Handlers run inline on the
// notification pump goroutine and must not block.
func (h *Hub) Subscribe(event string, fn func(payload any)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[event] = append(h.subscribers[event], fn)
}

func (h *Hub) dispatch(event string, payload any) {
	h.mu.Lock()
	handlers := make([]func(payload any), len(h.subscribers[event]))
	copy(handlers, h.subscribers[event])
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(payload)
	}
}

// SetEventTimer schedules fn to fire once after d, replacing any timer
// already armed.
func (h *Hub) SetEventTimer(d time.Duration, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.eventTimer != nil {
		h.eventTimer.Stop()
	}
	h.eventTimer = time.AfterFunc(d, fn)
}

// CancelEventTimer stops the armed event timer. Safe to call any number of
// times, with or without a timer armed.
func (h *Hub) CancelEventTimer() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.eventTimer != nil {
		h.eventTimer.Stop()
		h.eventTimer = nil
	}
}

// send prepends the two-byte common header (total length, hub id) and writes
// the message. Transport failures are logged, not surfaced: transmission is
// fire-and-forget for the devices above.
func (h *Hub) send(frame []byte) {
	msg := make([]byte, len(frame)+2)
	msg[0] = byte(len(frame) + 2)
	copy(msg[2:], frame)

	if err := h.transport.Write(msg); err != nil {
		slog.Warn("frame transmission failed",
			slog.String("hub", h.name), slog.Any("error", err))
	}
}

// Run consumes transport notifications and routes them to bound ports until
// ctx is done or the link drops. The transport is closed on the way out.
func (h *Hub) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	notifications := h.transport.Notifications(ctx)

	g.Go(func() error {
		for n := range notifications {
			h.route(n.Data)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return h.transport.Close()
	})

	return g.Wait()
}

func (h *Hub) route(msg []byte) {
	if len(msg) < 4 {
		slog.Debug("runt message", slog.Int("len", len(msg)))
		return
	}

	switch msg[2] {
	case msgPortValueSingle:
		h.routePortValue(msg)

	case msgPortOutputFeedback:
		h.routeFeedback(msg)

	default:
		slog.Debug("unhandled message type",
			slog.Int("type", int(msg[2])), slog.Int("len", len(msg)))
	}
}

func (h *Hub) routePortValue(msg []byte) {
	id := msg[3]

	h.mu.Lock()
	port, ok := h.ports[id]
	mode, activated := h.activeModes[id]
	h.mu.Unlock()

	if !ok || port.device == nil {
		slog.Warn("telemetry for unbound port", slog.Int("port", int(id)))
		return
	}
	if !activated {
		mode = protocol.ModeRotation
	}

	port.device.Parse(mode, msg)
}

func (h *Hub) routeFeedback(msg []byte) {
	if len(msg) < 5 {
		return
	}
	id := msg[3]

	h.mu.Lock()
	port, ok := h.ports[id]
	h.mu.Unlock()

	if !ok || port.device == nil {
		return
	}

	if msg[4]&(feedbackCompleted|feedbackIdle) != 0 {
		port.device.ResolveCompletion()
	}
}
