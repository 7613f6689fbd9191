// Package pins drives the outputs from microcontroller pins: a digital pin for
// the indicator and a PWM channel for the actuator. The machine bindings live
// in the tinygo-only file; the mapping itself builds everywhere.
package pins
