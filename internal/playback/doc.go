// Package playback renders a morse.Sequence as timed pulses.
//
// The Scheduler is a cooperative state machine: Start adopts a sequence and
// lights the outputs for the first mark, and every later phase change happens
// inside Tick, which the host calls from its main loop with the current
// monotonic time. Nothing in this package sleeps, blocks or locks; Start, Tick
// and Stop must all run on the same goroutine.
//
// Timing follows the standard ratios: dot 1, dash 3, gap after a pulse 1,
// letter gap 3, word gap 7, all in multiples of Unit.
package playback
