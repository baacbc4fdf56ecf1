// Package updater implements the snapshot regeneration orchestrator.
//
// The orchestrator:
//   - Guards against overlapping regenerations with an atomic single-flight flag
//   - Spawns the external collection script with a hard timeout
//   - Returns to the caller immediately; the run completes in the background
//   - Records only the most recent outcome (no history, no retries)
package updater
