// Package logging builds the process-wide logr.Logger the server and
// every component it starts log through.
//
// A level name ("trace", "debug", "info", "warn", "error") is mapped onto a
// slog.Level and used to configure a text-handler slog.Logger, which is
// then bridged to logr via logr.FromSlogHandler. "trace" has no slog
// equivalent and is mapped to slog's lowest level minus four, matching the
// relative ordering original_source's tracing::Level::TRACE has below DEBUG.
package logging
