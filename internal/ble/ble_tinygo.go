package ble

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"
)

// Device is a Transport backed by a real BLE connection through the OS
// Bluetooth stack.
type Device struct {
	device bluetooth.Device
	char   bluetooth.DeviceCharacteristic

	notifications chan Notification
	closeOnce     sync.Once
}

// Connect scans for a Powered Up hub and opens its LPF2 characteristic. An
// empty name matches the first hub advertising the LPF2 service; otherwise
// the advertised local name must contain name.
func Connect(ctx context.Context, name string, timeout time.Duration) (*Device, error) {
	adapter := bluetooth.DefaultAdapter
	if adapter == nil {
		return nil, fmt.Errorf("no BLE adapter available")
	}
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("enabling BLE adapter: %w", err)
	}

	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		target bluetooth.ScanResult
		found  bool
	)
	err := adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		select {
		case <-scanCtx.Done():
			adapter.StopScan()
			return
		default:
		}

		local := result.LocalName()
		if name != "" && !strings.Contains(local, name) {
			return
		}
		if name == "" && !strings.Contains(local, "Hub") && !strings.Contains(local, "LEGO") {
			return
		}

		slog.Info("hub found", slog.String("name", local), slog.String("address", result.Address.String()))
		target = result
		found = true
		adapter.StopScan()
		cancel()
	})
	if err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}

	<-scanCtx.Done()
	adapter.StopScan()

	if !found {
		return nil, fmt.Errorf("no hub found within %s", timeout)
	}

	device, err := adapter.Connect(target.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", target.Address.String(), err)
	}

	char, err := lpf2Characteristic(device)
	if err != nil {
		device.Disconnect()
		return nil, err
	}

	d := &Device{
		device:        device,
		char:          char,
		notifications: make(chan Notification),
	}

	err = char.EnableNotifications(func(buf []byte) {
		data := make([]byte, len(buf))
		copy(data, buf)
		d.notifications <- Notification{Data: data}
	})
	if err != nil {
		device.Disconnect()
		return nil, fmt.Errorf("enabling notifications: %w", err)
	}

	return d, nil
}

func lpf2Characteristic(device bluetooth.Device) (bluetooth.DeviceCharacteristic, error) {
	var char bluetooth.DeviceCharacteristic

	svcUUID, err := bluetooth.ParseUUID(LPF2ServiceUUID)
	if err != nil {
		return char, err
	}
	charUUID, err := bluetooth.ParseUUID(LPF2CharacteristicUUID)
	if err != nil {
		return char, err
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{svcUUID})
	if err != nil {
		return char, fmt.Errorf("discovering LPF2 service: %w", err)
	}
	if len(services) == 0 {
		return char, fmt.Errorf("device does not expose the LPF2 service")
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{charUUID})
	if err != nil {
		return char, fmt.Errorf("discovering LPF2 characteristic: %w", err)
	}
	if len(chars) == 0 {
		return char, fmt.Errorf("LPF2 characteristic not found")
	}

	return chars[0], nil
}

func (d *Device) Write(msg []byte) error {
	_, err := d.char.WriteWithoutResponse(msg)
	return err
}

func (d *Device) Notifications(ctx context.Context) <-chan Notification {
	go func() {
		<-ctx.Done()
		d.closeOnce.Do(func() { close(d.notifications) })
	}()

	return d.notifications
}

func (d *Device) Close() error {
	return d.device.Disconnect()
}
