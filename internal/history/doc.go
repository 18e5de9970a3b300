// Package history persists one row per conversion request in SQLite.
//
// Rows are created when a request starts and transition exactly once to
// completed, failed, or rejected. The CLI reads them back for `ncmconv
// history`; the watch daemon writes them so unattended conversions leave an
// audit trail.
package history
