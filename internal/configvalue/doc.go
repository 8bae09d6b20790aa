// Package configvalue implements the tagged-variant configuration value
// carrier used throughout Drasi Server's DTOs: a field may be a literal, an
// environment-variable reference (with optional default), or a secret
// reference. Resolution into a concrete value happens in package mapping.
package configvalue
