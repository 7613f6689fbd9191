// Package http serves the admin endpoints of the device daemon: liveness,
// the current status as JSON, and Prometheus metrics.
package http
