// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Update run counts, durations, and the in-flight gauge
//   - Scheduler check outcomes
//   - Snapshot load outcomes per file
//   - HTTP request counts per route and status
package metrics
