//go:build linux && !baremetal

package ble

import "tinygo.org/x/bluetooth"

// selectAdapter returns the named BlueZ adapter such as "hci1".
func selectAdapter(id string) *bluetooth.Adapter {
	if id == "" {
		return bluetooth.DefaultAdapter
	}

	return bluetooth.NewAdapter(id)
}
