// Package client implements the morse-send commands.
//
// Every command except Encode and Decode connects to the device over gRPC,
// identifies the caller, and prints the outcome in a human readable form.
package client
