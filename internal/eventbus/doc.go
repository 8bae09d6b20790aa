// Package eventbus implements the process-wide lifecycle-event publisher
// that component managers publish onto and the control API and operators
// observe. Publish never blocks on a slow or absent subscriber: each
// subscriber gets its own buffered channel, and a full channel drops the
// event rather than stalling the publisher, since a lifecycle notification
// is advisory, not data that must never be lost.
package eventbus
