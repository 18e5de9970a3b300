// Package preflight provides readiness checks for the filesystem paths and
// external tools ncmconv depends on.
//
// The watch daemon runs RunAll before it starts so a missing output
// directory or an unusable state directory fails fast instead of on the
// first conversion. `ncmconv deps` uses the same checks for display.
package preflight
