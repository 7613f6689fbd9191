// Package serial drives the outputs of a microcontroller attached over a
// serial line. Every channel write becomes one checksummed frame.
package serial
