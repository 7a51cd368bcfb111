// Package history keeps a log of route queries in SQLite and derives
// simple usage analytics from it.
//
// Recorder adapts a Repository into a wayfinding listener so every
// route.computed and route.failed event becomes one row. Summary reports
// search totals, the most requested destinations, busy hours in the site
// time zone and failure kinds.
//
// # Thread Safety
//
// SQLiteRepository is safe for concurrent use (database/sql pooling).
package history
