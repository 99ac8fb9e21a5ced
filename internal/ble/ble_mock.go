package ble

import (
	"context"
	"sync"
)

// MockTransport is an in-memory Transport for tests and examples. Outgoing
// messages are recorded; inbound messages are injected with Emit.
type MockTransport struct {
	mu      sync.Mutex
	written [][]byte

	notifications chan Notification
	closeOnce     sync.Once
}

func NewMockTransport() *MockTransport {
	return &MockTransport{
		notifications: make(chan Notification),
	}
}

func (m *MockTransport) Write(msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(msg))
	copy(cp, msg)
	m.written = append(m.written, cp)
	return nil
}

func (m *MockTransport) Notifications(ctx context.Context) <-chan Notification {
	go func() {
		<-ctx.Done()
		m.closeOnce.Do(func() { close(m.notifications) })
	}()

	return m.notifications
}

func (m *MockTransport) Close() error {
	return nil
}

// Emit injects one inbound message as if the hub had sent it.
func (m *MockTransport) Emit(data []byte) {
	m.notifications <- Notification{Data: data}
}

// Written returns the messages sent so far, oldest first.
func (m *MockTransport) Written() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]byte, len(m.written))
	copy(out, m.written)
	return out
}
