// Package ble abstracts the Bluetooth LE link a hub is reachable over.
package ble

import "context"

// GATT service and characteristic used by Powered Up (LPF2) hubs.
const (
	LPF2ServiceUUID        = "00001623-1212-efde-1623-785feabcd123"
	LPF2CharacteristicUUID = "00001624-1212-efde-1623-785feabcd123"
)

// Notification is one inbound message delivered by the remote hub.
type Notification struct {
	Data []byte
}

// Transport represents a connected hub link capable of frame I/O.
type Transport interface {
	// Write sends one outgoing message without waiting for a response.
	Write(msg []byte) error

	// Notifications returns the channel inbound messages are delivered on.
	// The channel is closed when ctx is done or the link drops.
	Notifications(ctx context.Context) <-chan Notification

	Close() error
}
