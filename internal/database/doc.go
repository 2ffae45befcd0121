// Package database provides the SQLite store that keeps docproof's run
// history.
//
// The Store records:
//   - the diff index of every generate run, used as the baseline for the
//     next run and by the compare command
//   - the violations of every verify run
//
// The database is a single file (docproof.db) in the XDG data directory,
// opened through the CGO-free modernc.org/sqlite driver with WAL enabled.
package database
