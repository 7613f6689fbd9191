// Package device runs the Morse beacon: a single-threaded controller that
// turns text and intensity commands into playback and status updates, and the
// event loop that owns it.
//
// Transports never call the controller directly. They post events to the
// Service, whose loop goroutine applies them between poll ticks.
package device
