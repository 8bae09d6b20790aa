// Package platform implements the Platform reaction plugin kind: it
// publishes each result delta onto a Valkey/Redis pub-sub channel using
// github.com/valkey-io/valkey-go, for delivery to other services already
// wired into that transport rather than a dedicated HTTP/gRPC endpoint.
package platform
