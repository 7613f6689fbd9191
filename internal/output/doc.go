// Package output provides playback.Driver implementations that are not tied
// to a particular piece of hardware: an in-memory Recorder used by tests and
// the terminal simulator, a fan-out Multi driver, and a debug-logging wrapper.
//
// Hardware drivers live in the sub-packages serial, midi and pins.
package output
