// Package midi renders the outputs as a MIDI sidetone: the indicator keys a
// note and the actuator level drives the modulation controller.
package midi
