// Package scheduler implements the trading-window scheduler.
//
// The scheduler:
//   - Ticks on a fixed period (default 30m)
//   - Triggers an unattended regeneration when inside the trading window
//     (13:00-21:20 UTC, both endpoints inclusive) and the orchestrator is idle
//   - Treats a Busy rejection as a harmless overlap with a manual update
//   - Cancels its timer on Stop and triggers nothing afterwards
package scheduler
