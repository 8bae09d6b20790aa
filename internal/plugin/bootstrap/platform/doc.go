// Package platform implements the Platform bootstrap provider kind: it
// reads the platform's current-state snapshot, stored as a Valkey/Redis
// hash keyed by entity id, via github.com/valkey-io/valkey-go, and replays
// every field as an insert row.
package platform
