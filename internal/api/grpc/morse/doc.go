// Package morse adapts the device service to the MorseService gRPC API and
// maps domain errors onto gRPC status codes.
package morse
