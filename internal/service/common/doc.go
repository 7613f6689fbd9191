// Package common holds helpers shared by several services.
//
// It provides a lightweight MorseService gRPC client wrapper with timeouts,
// detection of the current system actor (hostname/username) for audit
// purposes, and a single-instance guard for the device daemon.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
