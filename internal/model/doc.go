// Package model defines shared data types for the penny-stock dashboard
// service.
//
// The snapshot types mirror the JSON files written by the external collection
// script (scripts/update_stocks.py), so the JSON tags use the script's keys
// and the service can serve the files back to the dashboard unmodified.
//
// Conventions:
//   - Dates: "2006-01-02" strings; lexicographic order is chronological order
//   - Optional numerics: pointers, nil means unknown (the script writes null)
//   - IDs: string for tickers, uuid.UUID for update run IDs
package model
