//go:build tinygo

package pins

import (
	"fmt"
	"machine"
)

// actuatorPeriod is the PWM period in nanoseconds (20 kHz, above hearing).
const actuatorPeriod = 50_000

// pinAdapter adapts machine.Pin to Digital.
type pinAdapter struct {
	pin machine.Pin
}

func (p pinAdapter) Set(high bool) {
	p.pin.Set(high)
}

// machinePWM is the subset of the board PWM peripheral used here.
type machinePWM interface {
	PWM
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
}

// Board configures the LED pin and, when pwm is non-nil, the actuator pin.
func Board(led, actuator machine.Pin, pwm machinePWM) (*Driver, error) {
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.Low()

	if pwm == nil {
		return New(pinAdapter{pin: led}, nil, 0), nil
	}

	if err := pwm.Configure(machine.PWMConfig{Period: actuatorPeriod}); err != nil {
		return nil, fmt.Errorf("configure pwm: %w", err)
	}

	channel, err := pwm.Channel(actuator)
	if err != nil {
		return nil, fmt.Errorf("pwm channel: %w", err)
	}

	pwm.Set(channel, 0)

	return New(pinAdapter{pin: led}, pwm, channel), nil
}
