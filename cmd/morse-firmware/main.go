//go:build tinygo

// Command morse-firmware runs the device on an Arduino Nano 33 BLE:
// the on-board LED is the indicator and a vibration motor on D6 is the
// actuator.
package main

import (
	"context"
	"machine"
	"time"

	"github.com/oshokin/morse-beacon/internal/config"
	"github.com/oshokin/morse-beacon/internal/logger"
	"github.com/oshokin/morse-beacon/internal/output/pins"
	"github.com/oshokin/morse-beacon/internal/service/device"
	"github.com/oshokin/morse-beacon/internal/transport/ble"
)

// retryDelay paces restart attempts after a fatal setup error.
const retryDelay = 5 * time.Second

func main() {
	ctx := logger.WithName(context.Background(), "morse-firmware")

	for {
		if err := run(ctx); err != nil {
			logger.ErrorKV(ctx, "Firmware stopped", "error", err)
		}

		time.Sleep(retryDelay)
	}
}

func run(ctx context.Context) error {
	driver, err := pins.Board(machine.LED, machine.D6, machine.PWM0)
	if err != nil {
		return err
	}

	var (
		peripheral = ble.NewPeripheral(ctx)
		hub        = device.NewHub()
	)

	controller := device.NewController(driver, device.Publishers{device.LogPublisher{}, peripheral, hub},
		device.ControllerOptions{
			Intensity: config.DefaultIntensity,
			Blink:     true,
		})

	svc := device.NewService(controller, device.ServiceOptions{
		Hub:      hub,
		SelfTest: true,
	})

	if err = peripheral.Start(svc, ble.Options{LocalName: config.DefaultLocalName}); err != nil {
		return err
	}

	return svc.Run(ctx)
}
