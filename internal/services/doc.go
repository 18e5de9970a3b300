// Package services defines shared utilities consumed by the conversion
// pipeline stages.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs, stage names, and source paths
//     for logging and history records.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent history statuses (failed vs rejected).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
