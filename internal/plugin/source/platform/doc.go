// Package platform implements the Platform source plugin kind: it tails a
// Valkey/Redis stream of JSON-encoded change events via
// github.com/valkey-io/valkey-go, treating the platform's own change bus as
// this repo's external source of truth.
package platform
