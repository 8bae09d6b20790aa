// Package sse implements the Sse reaction plugin kind: an http.Handler that
// streams each result delta to every connected client as a Server-Sent
// Events "data:" frame, flushed immediately via http.Flusher.
package sse
