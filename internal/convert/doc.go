// Package convert runs the decode-and-finalize pipeline for container files.
//
// Each call to Service.Convert is one request: it gets a fresh request ID,
// reports a started event, and then exactly one completed or failed event.
// Requests share no mutable state, so ConvertAll runs them on a bounded pool.
// When a history store is configured every request is also recorded there.
package convert
