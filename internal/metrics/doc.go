// Package metrics exposes Prometheus collectors for the beacon: status and
// intensity gauges, message counters, and gRPC request instrumentation.
package metrics
