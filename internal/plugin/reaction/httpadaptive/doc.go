// Package httpadaptive implements the HttpAdaptive reaction plugin kind: an
// Http reaction that throttles its outbound request rate via
// golang.org/x/time/rate, backing off rather than overrunning a downstream
// consumer under load.
package httpadaptive
