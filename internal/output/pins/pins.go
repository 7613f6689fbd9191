package pins

import "github.com/oshokin/morse-beacon/internal/playback"

// Digital is a pin that can be driven high or low.
type Digital interface {
	Set(high bool)
}

// PWM is one PWM slice with a channel bound to the actuator pin.
type PWM interface {
	Top() uint32
	Set(channel uint8, value uint32)
}

// Driver maps channel levels onto pins.
type Driver struct {
	// indicator is the LED pin.
	indicator Digital
	// pwm drives the actuator; nil disables the actuator.
	pwm PWM
	// channel is the PWM channel of the actuator pin.
	channel uint8
}

// New builds a driver. pwm may be nil on boards without an actuator.
func New(indicator Digital, pwm PWM, channel uint8) *Driver {
	return &Driver{
		indicator: indicator,
		pwm:       pwm,
		channel:   channel,
	}
}

// Set implements playback.Driver.
func (d *Driver) Set(ch playback.Channel, level uint8) {
	switch ch {
	case playback.Indicator:
		d.indicator.Set(level > playback.LevelOff)
	case playback.Actuator:
		if d.pwm != nil {
			d.pwm.Set(d.channel, Duty(d.pwm.Top(), level))
		}
	}
}

// Duty scales an 8-bit level onto a PWM counter range.
func Duty(top uint32, level uint8) uint32 {
	return uint32(uint64(top) * uint64(level) / uint64(playback.LevelFull))
}
