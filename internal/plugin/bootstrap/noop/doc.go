// Package noop implements the NoOp bootstrap provider kind: it contributes
// nothing to a query's initial snapshot, for sources whose live stream is
// already a complete picture (e.g. Mock) or that simply don't need replay.
package noop
