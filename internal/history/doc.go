// Package history records successful translations. Records are appended
// to an append-only CSV log and optionally mirrored into a SQL table;
// nothing in this package ever rewrites or deletes a record.
package history
