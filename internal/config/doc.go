// Package config defines Drasi Server's top-level configuration: the
// domain model for Source/Query/Reaction configs, the wire DTOs built from
// configvalue.Value references, the loader (two accepted text encodings),
// structural validation, and atomic file persistence. Persistence writes to
// a temp file in the target directory and renames it into place, so a crash
// mid-save never leaves a truncated config file on disk.
package config
