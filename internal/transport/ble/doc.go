// Package ble exposes the device as a GATT peripheral. One service carries
// four characteristics:
//
//	text input   write        UTF-8 text to play, up to TextCapacity bytes
//	morse output read/notify  rendering of the last accepted text
//	haptic       write        one byte of actuator intensity
//	status       read/notify  little-endian int32 status code
//
// Writes from the central are posted to the device loop without waiting.
package ble
