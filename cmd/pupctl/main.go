// pupctl connects to a Powered Up hub over BLE and drives a tacho motor on
// one of its ports, printing rotation telemetry as it streams in.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sciguy16/node-poweredup/internal/ble"
	"github.com/sciguy16/node-poweredup/internal/protocol"
	"github.com/sciguy16/node-poweredup/pkg/hub"
	"github.com/sciguy16/node-poweredup/pkg/tachomotor"
)

func main() {
	var (
		name     = flag.String("name", "", "hub name to match while scanning (empty: first LEGO hub)")
		portID   = flag.Int("port", 0, "port the motor is attached to")
		speed    = flag.Int("speed", 50, "motor speed in [-100, 100]")
		degrees  = flag.Int("degrees", 0, "rotate by this many degrees instead of running for a duration")
		duration = flag.Duration("for", 2*time.Second, "how long to run the motor")
		braking  = flag.String("brake", "brake", "braking style: coast, brake or hold")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer stop()

	style, err := parseBrakingStyle(*braking)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	transport, err := ble.Connect(ctx, *name, 30*time.Second)
	if err != nil {
		slog.Error("connecting to hub", slog.Any("error", err))
		os.Exit(1)
	}

	h := hub.New(transport, hub.Options{Name: *name, Variant: protocol.TechnicMediumHub})
	go func() {
		if err := h.Run(ctx); err != nil {
			slog.Error("hub link", slog.Any("error", err))
		}
	}()

	port := h.Attach(byte(*portID))
	motor := tachomotor.New(port, tachomotor.Config{})
	port.Bind(motor)
	motor.SetBrakingStyle(style)

	h.Subscribe(tachomotor.EventRotate, func(payload any) {
		reading := payload.(protocol.RotationReading)
		fmt.Printf("rotation: %d degrees\n", reading.Degrees)
	})
	port.Activate(protocol.ModeRotation)

	var done <-chan struct{}
	if *degrees != 0 {
		done, err = motor.RotateByDegrees(*degrees, *speed)
	} else {
		done, err = motor.SetSpeedFor(*duration, *speed)
	}
	if err != nil {
		slog.Error("issuing command", slog.Any("error", err))
		os.Exit(1)
	}

	select {
	case <-done:
		fmt.Println("motion complete")
	case <-ctx.Done():
	}
}

func parseBrakingStyle(s string) (protocol.BrakingStyle, error) {
	switch s {
	case "coast":
		return protocol.Coast, nil
	case "brake":
		return protocol.Brake, nil
	case "hold":
		return protocol.Hold, nil
	}
	return 0, fmt.Errorf("unknown braking style %q", s)
}
