// Package server implements the HTTP API for the penny-stock dashboard:
// snapshot reads, the options lookup, manual update triggering, and the
// operational endpoints (health, metrics, static dashboard assets).
package server
