// Package application implements the Application bootstrap provider kind:
// rather than reading an external snapshot endpoint, it replays whatever
// in-process snapshot hook its owning source registered under a shared name,
// entirely without network transport.
package application
