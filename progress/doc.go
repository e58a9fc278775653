// Package progress provides cmrx.ProgressListener implementations:
// structured log lines (Log), Prometheus gauges and counters (Metrics),
// an iteration budget (Limit) and a fan-out (Multi).
package progress
