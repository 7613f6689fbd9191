// Package settings persists the device output settings (actuator intensity and
// who last changed it) to a JSON file so they survive a restart.
package settings
