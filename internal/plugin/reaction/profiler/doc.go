// Package profiler implements the Profiler reaction plugin kind: it counts
// arriving deltas and periodically logs a throughput summary via log/slog,
// for observing a query's live throughput without wiring a full metrics
// pipeline. Per-delta latency is not measured.
package profiler
