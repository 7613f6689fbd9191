// Package sim runs the device engine in a terminal front panel.
//
// The panel shows both output channels as lamps with scrolling traces, the
// live status snapshot, and a prompt that sends text straight to the
// engine. The simulated device can also serve the gRPC API so morse-send
// can drive it.
package sim
