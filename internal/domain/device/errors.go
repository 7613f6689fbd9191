package device

import "errors"

var (
	// ErrPublish is returned when the rendered sequence could not be delivered.
	ErrPublish = errors.New("publish encoded result")
	// ErrStopped is returned when the device loop is no longer running.
	ErrStopped = errors.New("device loop stopped")
	// ErrBusy is returned when the device event queue is full.
	ErrBusy = errors.New("device event queue is full")
)
