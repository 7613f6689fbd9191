// Package daemon wires the device core to the host: config, persisted
// settings, serial and MIDI outputs, the wireless peripheral, gRPC and the
// admin listener. Firmware builds use package device directly.
package daemon
