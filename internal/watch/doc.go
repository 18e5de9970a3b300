// Package watch reports container files created in a directory.
//
// A Watcher owns one fsnotify watch and a goroutine that delivers matching
// paths on a channel once writes to them have settled. Manager holds at most
// one active Watcher; starting a new watch stops the previous one first.
package watch
