//go:build !linux || baremetal

package ble

import "tinygo.org/x/bluetooth"

// selectAdapter returns the only adapter available on this platform.
func selectAdapter(string) *bluetooth.Adapter {
	return bluetooth.DefaultAdapter
}
