// Package journal persists a record of every finished cycle in SQLite.
//
// Rows are written after staging cleanup, once the outcome is final, so a
// journal failure can never change what the caller is told. The history
// command reads recent rows back and Prune enforces the configured retention.
package journal
