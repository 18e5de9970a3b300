// Package logs reads the ncmconv log file for `ncmconv logs`.
//
// Last reads the trailing lines with bounded memory. Follow streams lines
// appended after an offset and reopens the file when the rotating writer
// replaces it.
package logs
