// Package daemon coordinates the long-running watch process.
//
// It wires configuration, the conversion service, and the directory watch
// manager into a single lifecycle with flock-based locking to prevent two
// watchers from converting the same files. Each delivered path is converted
// on a bounded pool so a burst of new files does not spawn unbounded
// transcoder processes.
//
// Keep orchestration logic here: conversion itself lives in internal/convert
// while the daemon focuses on startup, shutdown, and high level coordination.
package daemon
