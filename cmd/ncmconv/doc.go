// Command ncmconv decrypts NCM containers into FLAC files.
//
// It converts files given on the command line, watches a directory and
// converts new containers as they arrive, inspects container layout, and
// shows the conversion history recorded in the state directory.
package main
