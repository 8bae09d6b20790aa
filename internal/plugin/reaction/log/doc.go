// Package log implements the Log reaction plugin kind: it writes each
// result delta as a structured log record via log/slog, the simplest
// possible reaction and a useful default for local development.
package log
