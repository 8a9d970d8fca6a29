// Package database provides SQLite-based storage for scan reports.
//
// This package implements the ScanDB, which stores completed scan
// reports as JSON rows keyed by scan ID and grouped by site, with a
// few denormalized columns (palette summary, tone voice) so history
// listings never parse full reports.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of
// other databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
